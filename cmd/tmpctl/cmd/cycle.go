package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func cycleCmd() *cobra.Command {
	cycleRoot := &cobra.Command{
		Use:   "cycle",
		Short: "Trigger and inspect refresh cycles",
	}

	cycleRoot.AddCommand(cycleRunCmd(), cycleListCmd())
	return cycleRoot
}

func cycleRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a refresh cycle on the server",
		Long: "Ask the server to re-scrape every tracked product and notify\n" +
			"subscribers of price changes. Requires --token (or TMP_TOKEN)\n" +
			"when the server has a trigger token configured.",
		Example: `  TMP_TOKEN=s3cret tmpctl cycle run`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if viper.GetString("token") == "" {
				fmt.Fprintln(os.Stderr, "warning: no --token set")
			}

			report, err := newClient().RunCycle(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput() {
				if err := outputJSON(report); err != nil {
					return err
				}
			} else if err := printCycleReport(os.Stdout, report); err != nil {
				return err
			}

			if report.Status != domain.CycleStatusSuccess {
				return fmt.Errorf("cycle finished with status %s", report.Status)
			}
			return nil
		},
	}
}

func cycleListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent refresh cycles",
		RunE: func(_ *cobra.Command, _ []string) error {
			runs, err := newClient().ListCycles(context.Background(), limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No cycles recorded.")
				return nil
			}
			return printCycleRunsTable(os.Stdout, runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum cycles to show")
	return cmd
}
