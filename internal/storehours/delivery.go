package storehours

import (
	"fmt"
	"time"
)

const (
	reasonDeliveryNotStarted = "Entregas começam às %s"
	reasonDeliveryEnded      = "Entregas encerradas às %s"

	minutesPerDay = 24 * 60
)

// DeliveryStatus indica se a opção de entrega pode ser oferecida. Retirada no
// balcão continua disponível sempre que a loja estiver aberta.
type DeliveryStatus struct {
	Available bool    `json:"available"`
	Reason    *string `json:"reason"`
}

// EvaluateDelivery aplica a janela de entrega por cima de Evaluate: a loja
// precisa estar aberta e o horário atual dentro dos limites configurados.
// Um limite ausente é o horário da loja.
func EvaluateDelivery(cfg StoreConfig, now time.Time) DeliveryStatus {
	status := Evaluate(cfg, now)
	if !status.IsOpen {
		return DeliveryStatus{Available: false, Reason: status.Reason}
	}

	if cfg.DeliveryStartTime == nil && cfg.DeliveryEndTime == nil {
		return DeliveryStatus{Available: true}
	}

	store := cfg.storeWindow()
	delivery := store
	if cfg.DeliveryStartTime != nil {
		delivery.start = *cfg.DeliveryStartTime
	}
	if cfg.DeliveryEndTime != nil {
		delivery.end = *cfg.DeliveryEndTime
	}

	current := TimeOfDayOf(now)
	start, end, n := store.rank(delivery.start), store.rank(delivery.end), store.rank(current)

	if start <= end {
		switch {
		case n < start:
			return deliveryUnavailable(reasonDeliveryNotStarted, delivery.start)
		case n > end:
			return deliveryUnavailable(reasonDeliveryEnded, delivery.end)
		}
		return DeliveryStatus{Available: true}
	}

	// janela de entrega que vira a meia-noite dentro de uma loja diurna
	if cfg.DeliveryStartTime != nil && cfg.DeliveryEndTime != nil && delivery.contains(current) {
		return DeliveryStatus{Available: true}
	}
	if cfg.DeliveryStartTime != nil {
		return deliveryUnavailable(reasonDeliveryNotStarted, delivery.start)
	}
	return deliveryUnavailable(reasonDeliveryEnded, delivery.end)
}

func deliveryUnavailable(format string, t TimeOfDay) DeliveryStatus {
	reason := fmt.Sprintf(format, t)
	return DeliveryStatus{Available: false, Reason: &reason}
}

// IsDeliveryAvailable reports whether home delivery is accepted at now.
func IsDeliveryAvailable(cfg StoreConfig, now time.Time) bool {
	return EvaluateDelivery(cfg, now).Available
}
