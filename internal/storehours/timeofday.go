package storehours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay representa um horário local (hora e minuto), sem data nem fuso
type TimeOfDay struct {
	Hour   int
	Minute int
}

// endOfDay é usado quando o horário de fechamento não está configurado
var endOfDay = TimeOfDay{Hour: 23, Minute: 59}

// ParseTimeOfDay interpreta "HH:MM" (também aceita "H:MM" e "HH:MM:SS", ignorando os segundos)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("horário inválido %q: use o formato HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) > 2 {
		return TimeOfDay{}, fmt.Errorf("horário inválido %q: hora", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("horário inválido %q: minuto", s)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || len(parts[2]) != 2 || sec < 0 || sec > 59 {
			return TimeOfDay{}, fmt.Errorf("horário inválido %q: segundo", s)
		}
	}

	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.valid() {
		return TimeOfDay{}, fmt.Errorf("horário inválido %q: fora do intervalo 00:00-23:59", s)
	}
	return t, nil
}

// MustParseTimeOfDay é a versão de ParseTimeOfDay que entra em pânico, útil para constantes e testes
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf extrai o horário de parede de um instante, descartando segundos
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Minutes retorna os minutos desde a meia-noite
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

// After reports whether t is strictly later than u.
func (t TimeOfDay) After(u TimeOfDay) bool {
	return t.Minutes() > u.Minutes()
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// window is a closed [start, end] range of wall-clock minutes. When end is
// before start the range wraps past midnight.
type window struct {
	start TimeOfDay
	end   TimeOfDay
}

func (w window) overnight() bool {
	return w.end.Before(w.start)
}

func (w window) contains(t TimeOfDay) bool {
	if w.overnight() {
		return !t.Before(w.start) || !t.After(w.end)
	}
	return !t.Before(w.start) && !t.After(w.end)
}

// rank places t on the window's own timeline: in an overnight window the
// minutes after midnight come after the ones before it.
func (w window) rank(t TimeOfDay) int {
	m := t.Minutes()
	if w.overnight() && !t.After(w.end) {
		m += minutesPerDay
	}
	return m
}
