package main

import (
	"bytes"
	"testing"
	"time"

	"acaiteria/internal/storehours"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAt(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := parseAt("2024-06-03 21:45", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 21, 45, 0, 0, loc), got)

	got, err = parseAt("2024-06-03T12:00:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)))

	_, err = parseAt("amanhã", loc)
	assert.Error(t, err)
}

func TestPrintSnapshot(t *testing.T) {
	reason := "Loja não funciona hoje (domingo)"
	next := "Abre amanhã (segunda-feira) às 10:00"

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	printSnapshot(cmd, storehours.Snapshot{
		Status:      storehours.StoreStatus{IsOpen: false, Reason: &reason, NextOpenTime: &next},
		Delivery:    storehours.DeliveryStatus{Available: false, Reason: &reason},
		EvaluatedAt: time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC),
	})

	text := out.String()
	assert.Contains(t, text, "Loja: fechada (Loja não funciona hoje (domingo))")
	assert.Contains(t, text, "Próxima abertura: "+next)
	assert.Contains(t, text, "Entrega: indisponível")
	assert.Contains(t, text, "02/06/2024 15:00")
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"status", "schedule", "open", "close"} {
		assert.True(t, names[want], want)
	}
}
