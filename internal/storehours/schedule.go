package storehours

import (
	"fmt"
	"strings"
	"time"
)

var scheduleLabels = [...]struct {
	day   time.Weekday
	label string
}{
	{time.Monday, "Segunda"},
	{time.Tuesday, "Terça"},
	{time.Wednesday, "Quarta"},
	{time.Thursday, "Quinta"},
	{time.Friday, "Sexta"},
	{time.Saturday, "Sábado"},
	{time.Sunday, "Domingo"},
}

// FormatSchedule formata os horários da semana, começando na segunda-feira
func FormatSchedule(cfg StoreConfig) string {
	w := cfg.storeWindow()

	var b strings.Builder
	for _, d := range scheduleLabels {
		if cfg.OperatingDays.Contains(d.day) {
			fmt.Fprintf(&b, "• %s: %s às %s\n", d.label, w.start, w.end)
		} else {
			fmt.Fprintf(&b, "• %s: Fechado\n", d.label)
		}
	}

	if cfg.DeliveryStartTime != nil || cfg.DeliveryEndTime != nil {
		start, end := w.start, w.end
		if cfg.DeliveryStartTime != nil {
			start = *cfg.DeliveryStartTime
		}
		if cfg.DeliveryEndTime != nil {
			end = *cfg.DeliveryEndTime
		}
		fmt.Fprintf(&b, "Entregas: %s às %s\n", start, end)
	}

	return b.String()
}
