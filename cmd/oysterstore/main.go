package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/alomew/oysterstore/pkg/config"
	"github.com/alomew/oysterstore/pkg/models"
	"github.com/alomew/oysterstore/pkg/service"
	"github.com/alomew/oysterstore/pkg/store"
	"github.com/alomew/oysterstore/pkg/ynab"
)

var (
	cfgFile string
	debug   bool

	exportStart string
	exportEnd   string
)

var rootCmd = &cobra.Command{
	Use:   "oysterstore",
	Short: "Keep Oyster card journey history in a local ledger",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var loadAllCmd = &cobra.Command{
	Use:   "loadall",
	Short: "Load every new journey history export from the inbox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, st, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		return service.NewLoader(cfg, st, logger).LoadAll()
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a single journey history export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		return service.NewLoader(cfg, st, logger).LoadFile(args[0])
	},
}

var ynabCSVCmd = &cobra.Command{
	Use:   "ynabcsv",
	Short: "Write a YNAB import CSV for a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := ynab.Range{Start: exportStart, End: exportEnd}
		for _, d := range []string{r.Start, r.End} {
			if d == "" {
				continue
			}
			if _, err := time.Parse(models.ISODate, d); err != nil {
				return fmt.Errorf("dates must be YYYY-MM-DD, got %q", d)
			}
		}

		cfg, st, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		path, err := ynab.Export(st, payees(cfg), r)
		if err != nil {
			return err
		}
		fmt.Println("Written to:", path)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the latest known balance and its date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		date, bal, err := st.LatestBalance()
		if errors.Is(err, store.ErrNoData) {
			fmt.Println("No journeys recorded yet.")
			return nil
		}
		if err != nil {
			return err
		}

		latestStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
		fmt.Println(latestStyle.Render(fmt.Sprintf("[latest %s]", date)))
		fmt.Printf("Current balance is: £%s\n", bal)
		return nil
	},
}

// setup builds the pieces every subcommand needs: resolved config, an open
// ledger and a logger. One ledger connection per invocation.
func setup(cmd *cobra.Command) (*config.Config, *store.Store, *log.Logger, error) {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "oysterstore",
	}
	if debug {
		opts.Level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, opts)

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, st, logger, nil
}

func payees(cfg *config.Config) store.Payees {
	return store.Payees{
		TopUp:    cfg.Payees.TopUp,
		Operator: cfg.Payees.Operator,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Verbose logging and batch dumps")

	ynabCSVCmd.Flags().StringVar(&exportStart, "start", "", "Start date (YYYY-MM-DD, default two weeks back)")
	ynabCSVCmd.Flags().StringVar(&exportEnd, "end", "", "End date (YYYY-MM-DD, default unbounded)")

	rootCmd.AddCommand(loadAllCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(ynabCSVCmd)
	rootCmd.AddCommand(balanceCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
