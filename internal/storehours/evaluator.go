// Package storehours decide se a loja aceita pedidos em um dado instante.
//
// As funções deste pacote são puras: recebem a configuração e o instante de
// referência e não guardam estado entre chamadas. Todos os horários são
// comparados no relógio de parede do instante recebido; a conversão para o
// fuso da loja é responsabilidade de quem chama.
package storehours

import (
	"fmt"
	"time"
)

const (
	ReasonManuallyClosed = "Loja fechada manualmente pelo administrador"
	reasonClosedToday    = "Loja não funciona hoje (%s)"
	reasonBeforeOpening  = "A loja abre às %s"
	reasonAfterClosing   = "A loja já encerrou o expediente (fecha às %s)"
	nextOpenToday        = "Abre hoje às %s"
	nextOpenTomorrow     = "Abre amanhã (%s) às %s"
	nextOpenOnDay        = "Abre %s às %s"
)

// StoreStatus é o veredito de disponibilidade. Quando IsOpen é true, Reason e
// NextOpenTime são sempre nulos.
type StoreStatus struct {
	IsOpen       bool    `json:"is_open"`
	Reason       *string `json:"reason"`
	NextOpenTime *string `json:"next_open_time"`
}

func open() StoreStatus {
	return StoreStatus{IsOpen: true}
}

func closed(reason string, next *string) StoreStatus {
	return StoreStatus{IsOpen: false, Reason: &reason, NextOpenTime: next}
}

// Evaluate aplica as regras em ordem de prioridade: fechamento manual, dia da
// semana, antes da abertura, depois do fechamento. A primeira que casar vence.
func Evaluate(cfg StoreConfig, now time.Time) StoreStatus {
	if !cfg.IsManuallyOpen {
		return closed(ReasonManuallyClosed, nil)
	}

	today := now.Weekday()
	if !cfg.OperatingDays.Contains(today) {
		return closed(fmt.Sprintf(reasonClosedToday, WeekdayName(today)), nextOpening(cfg, today))
	}

	current := TimeOfDayOf(now)
	w := cfg.storeWindow()
	if w.contains(current) {
		return open()
	}

	// Fora da janela: em janela noturna isso só acontece entre o fechamento e a
	// abertura do mesmo dia, então cai sempre em "antes da abertura".
	if current.Before(w.start) {
		next := fmt.Sprintf(nextOpenToday, w.start)
		return closed(fmt.Sprintf(reasonBeforeOpening, w.start), &next)
	}

	return closed(fmt.Sprintf(reasonAfterClosing, w.end), nextOpening(cfg, today))
}

// nextOpening procura, a partir de amanhã, o próximo dia de funcionamento
// dentro de uma semana. Retorna nil se não houver nenhum.
func nextOpening(cfg StoreConfig, today time.Weekday) *string {
	opening := cfg.openingTime()
	for i := 1; i <= 7; i++ {
		day := time.Weekday((int(today) + i) % 7)
		if !cfg.OperatingDays.Contains(day) {
			continue
		}

		var msg string
		if i == 1 {
			msg = fmt.Sprintf(nextOpenTomorrow, WeekdayName(day), opening)
		} else {
			msg = fmt.Sprintf(nextOpenOnDay, WeekdayName(day), opening)
		}
		return &msg
	}
	return nil
}

// Evaluator envolve as funções puras com um relógio injetável.
type Evaluator struct {
	Now func() time.Time
}

// NewEvaluator returns an Evaluator reading the wall clock in loc. A nil loc
// means time.Local.
func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{Now: func() time.Time { return time.Now().In(loc) }}
}

func (e *Evaluator) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Status avalia a configuração no instante atual do relógio
func (e *Evaluator) Status(cfg StoreConfig) StoreStatus {
	return Evaluate(cfg, e.now())
}

// Delivery avalia a disponibilidade de entrega no instante atual do relógio
func (e *Evaluator) Delivery(cfg StoreConfig) DeliveryStatus {
	return EvaluateDelivery(cfg, e.now())
}
