package storehours

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WeekdaySet é um conjunto de dias da semana (domingo=0 .. sábado=6)
type WeekdaySet uint8

// NewWeekdaySet monta o conjunto a partir dos dias informados
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << uint(d)
		}
	}
	return s
}

// EveryDay contains all seven weekdays.
var EveryDay = NewWeekdaySet(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Days returns the members in calendar order, Sunday first.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// StoreConfig é a configuração de funcionamento já validada.
// Horários nulos significam "sem restrição".
type StoreConfig struct {
	IsManuallyOpen    bool
	OperatingDays     WeekdaySet
	OpeningTime       *TimeOfDay
	ClosingTime       *TimeOfDay
	DeliveryStartTime *TimeOfDay
	DeliveryEndTime   *TimeOfDay
}

func (c StoreConfig) storeWindow() window {
	w := window{start: TimeOfDay{}, end: endOfDay}
	if c.OpeningTime != nil {
		w.start = *c.OpeningTime
	}
	if c.ClosingTime != nil {
		w.end = *c.ClosingTime
	}
	return w
}

func (c StoreConfig) openingTime() TimeOfDay {
	return c.storeWindow().start
}

// RawConfig é o formato frouxo recebido de fora (banco, JSON, CLI).
// Normalize converte para StoreConfig rejeitando valores malformados.
type RawConfig struct {
	IsManuallyOpen    *bool   `json:"is_manually_open"`
	OperatingDays     []int   `json:"operating_days"`
	OpeningTime       *string `json:"opening_time"`
	ClosingTime       *string `json:"closing_time"`
	DeliveryStartTime *string `json:"delivery_start_time"`
	DeliveryEndTime   *string `json:"delivery_end_time"`
}

// ErrInvalidConfig is wrapped by every Normalize failure.
var ErrInvalidConfig = errors.New("configuração de horário inválida")

// Normalize valida a configuração bruta
func (r RawConfig) Normalize() (StoreConfig, error) {
	cfg := StoreConfig{IsManuallyOpen: true}
	if r.IsManuallyOpen != nil {
		cfg.IsManuallyOpen = *r.IsManuallyOpen
	}

	for _, d := range r.OperatingDays {
		if d < 0 || d > 6 {
			return StoreConfig{}, fmt.Errorf("%w: dia da semana %d fora do intervalo 0-6", ErrInvalidConfig, d)
		}
		cfg.OperatingDays |= NewWeekdaySet(time.Weekday(d))
	}

	fields := []struct {
		name string
		raw  *string
		dst  **TimeOfDay
	}{
		{"opening_time", r.OpeningTime, &cfg.OpeningTime},
		{"closing_time", r.ClosingTime, &cfg.ClosingTime},
		{"delivery_start_time", r.DeliveryStartTime, &cfg.DeliveryStartTime},
		{"delivery_end_time", r.DeliveryEndTime, &cfg.DeliveryEndTime},
	}
	for _, f := range fields {
		if f.raw == nil || strings.TrimSpace(*f.raw) == "" {
			continue
		}
		t, err := ParseTimeOfDay(*f.raw)
		if err != nil {
			return StoreConfig{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f.name, err)
		}
		*f.dst = &t
	}

	return cfg, nil
}

// Raw converte de volta para o formato de fronteira
func (c StoreConfig) Raw() RawConfig {
	open := c.IsManuallyOpen
	raw := RawConfig{IsManuallyOpen: &open, OperatingDays: []int{}}
	for _, d := range c.OperatingDays.Days() {
		raw.OperatingDays = append(raw.OperatingDays, int(d))
	}
	sort.Ints(raw.OperatingDays)

	str := func(t *TimeOfDay) *string {
		if t == nil {
			return nil
		}
		s := t.String()
		return &s
	}
	raw.OpeningTime = str(c.OpeningTime)
	raw.ClosingTime = str(c.ClosingTime)
	raw.DeliveryStartTime = str(c.DeliveryStartTime)
	raw.DeliveryEndTime = str(c.DeliveryEndTime)
	return raw
}

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// WeekdayName retorna o nome do dia em português
func WeekdayName(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return ""
	}
	return weekdayNames[d]
}
