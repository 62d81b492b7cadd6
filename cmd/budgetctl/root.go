package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/config"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagBackend string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Inspect and maintain the eBudgetMo data store",
	Long:          "budgetctl reads the same store as the API server: months, expenses, bills and notifications.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend, overrides STORAGE_BACKEND")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log storage activity to stderr")
}

// app is the service graph a command runs against
type app struct {
	ledger        *service.LedgerService
	bills         *service.BillsService
	notifications *service.NotificationService
	dashboard     *service.DashboardService
	profile       *service.ProfileService
	close         func() error
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagBackend != "" {
		cfg.StorageBackend = flagBackend
	}

	logger := zerolog.Nop()
	if flagVerbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	clock := service.SystemClock{}
	ledger := service.NewLedgerService(store, clock, logger)
	ledger.Load(ctx)
	bills := service.NewBillsService(store, clock, cfg.BillsRolloverPolicy, logger)
	bills.Load(ctx)
	notifications := service.NewNotificationService(ledger, bills, clock)

	return &app{
		ledger:        ledger,
		bills:         bills,
		notifications: notifications,
		dashboard:     service.NewDashboardService(ledger, bills, notifications),
		profile:       service.NewProfileService(store, service.NewImageService(service.AvatarWidth), logger),
		close: func() error {
			defer store.Close()
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := ledger.Flush(flushCtx); err != nil {
				return fmt.Errorf("flush budget data: %w", err)
			}
			if err := bills.Flush(flushCtx); err != nil {
				return fmt.Errorf("flush bills: %w", err)
			}
			return nil
		},
	}, nil
}

// withApp opens the store, runs fn and flushes pending writes
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}
