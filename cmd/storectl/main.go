package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"acaiteria/internal/app"
	"acaiteria/internal/config"
	"acaiteria/internal/db"
	"acaiteria/internal/storehours"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const atLayout = "2006-01-02 15:04"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storectl",
		Short: "Consulta e altera o horário de funcionamento da açaiteria",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
		},
		SilenceUsage: true,
	}

	root.AddCommand(newStatusCmd())
	root.AddCommand(newScheduleCmd())
	root.AddCommand(newManualCmd("open", "Abre a loja manualmente", true))
	root.AddCommand(newManualCmd("close", "Fecha a loja manualmente", false))

	return root
}

func connect() (*app.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	database, err := db.NewDatabase(cfg.Database, false)
	if err != nil {
		return nil, err
	}
	return app.NewServices(cfg, database)
}

func newStatusCmd() *cobra.Command {
	var at string

	c := &cobra.Command{
		Use:   "status",
		Short: "Mostra se a loja e a entrega estão disponíveis",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := connect()
			if err != nil {
				return err
			}
			defer services.Close()

			ctx := cmd.Context()
			store := services.StoreService

			// carrega o timezone da loja antes de interpretar --at
			if _, err := store.Settings(ctx); err != nil {
				return err
			}
			if at != "" {
				t, err := parseAt(at, store.Location())
				if err != nil {
					return err
				}
				store.SetClock(func() time.Time { return t })
			}

			_, snapshot, err := store.Availability(ctx)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snapshot)
			return nil
		},
	}

	c.Flags().StringVar(&at, "at", "", "avalia em outro instante: RFC3339 ou \"2024-06-03 21:45\" no horário da loja")
	return c
}

// parseAt aceita RFC3339 ou "2006-01-02 15:04" no horário da loja
func parseAt(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(atLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at deve estar em RFC3339 ou no formato %q", atLayout)
	}
	return t, nil
}

func printSnapshot(cmd *cobra.Command, snapshot storehours.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Avaliado em: %s\n", snapshot.EvaluatedAt.Format("02/01/2006 15:04 MST"))

	if snapshot.Status.IsOpen {
		fmt.Fprintln(out, "Loja: aberta")
	} else {
		fmt.Fprintf(out, "Loja: fechada (%s)\n", deref(snapshot.Status.Reason))
		if snapshot.Status.NextOpenTime != nil {
			fmt.Fprintf(out, "Próxima abertura: %s\n", *snapshot.Status.NextOpenTime)
		}
	}

	if snapshot.Delivery.Available {
		fmt.Fprintln(out, "Entrega: disponível")
	} else {
		fmt.Fprintf(out, "Entrega: indisponível (%s)\n", deref(snapshot.Delivery.Reason))
	}
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Mostra o horário semanal",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := connect()
			if err != nil {
				return err
			}
			defer services.Close()

			text, err := services.StoreService.Schedule(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newManualCmd(use, short string, open bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := connect()
			if err != nil {
				return err
			}
			defer services.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if _, err := services.StoreService.SetManualOpen(ctx, open); err != nil {
				return err
			}

			_, snapshot, err := services.StoreService.Availability(ctx)
			if err != nil {
				return err
			}
			printSnapshot(cmd, snapshot)
			return nil
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
