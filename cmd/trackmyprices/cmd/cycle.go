package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/varcodes/trackmyprices/internal/telemetry"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func cycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run one refresh cycle and exit",
		Long: "Runs a single refresh cycle in-process and prints the report as JSON.\n" +
			"Exits non-zero if the cycle failed or finished with item failures.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(ctx, telemetryConfig(cfg))
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					log.Warn("telemetry shutdown", "error", err)
				}
			}()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(log)

			result, err := a.engine.RunCycle(ctx)
			if err != nil {
				return fmt.Errorf("refresh cycle: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if result.Status != domain.CycleStatusSuccess {
				return fmt.Errorf("cycle finished with %d item failures", len(result.Failures))
			}
			return nil
		},
	}
}
