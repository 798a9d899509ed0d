package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	customer "github.com/nectarbooks/backend/internal/customers"
	invoice "github.com/nectarbooks/backend/internal/invoices"
	product "github.com/nectarbooks/backend/internal/products"
	"github.com/nectarbooks/backend/internal/reconcile"
	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/config"
	"github.com/nectarbooks/backend/pkg/db"
	"github.com/nectarbooks/backend/pkg/logger"
	"github.com/nectarbooks/backend/pkg/migrate"
)

// app holds everything a command needs once the store is open.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	dbClient  *db.Client
	store     *records.Store
	products  product.Service
	customers customer.Service
	invoices  invoice.Service
	engine    *reconcile.Engine
}

var runtime *app

var rootCmd = &cobra.Command{
	Use:           "nectarbooks",
	Short:         "Record keeping for a small business: products, customers, invoices, payments",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		runtime = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if runtime != nil {
			runtime.close()
		}
	},
}

func bootstrap(ctx context.Context) (*app, error) {
	log := logger.New(logger.Options{ServiceName: "nectarbooks"})

	if err := godotenv.Load(); err != nil {
		log.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log = logger.New(logger.Options{
		ServiceName: "nectarbooks",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrate.AutoRun(ctx, cfg, log, dbClient); err != nil {
		dbClient.Close()
		return nil, err
	}

	store := records.New(dbClient)

	productSvc, err := product.NewService(store)
	if err != nil {
		dbClient.Close()
		return nil, err
	}
	customerSvc, err := customer.NewService(store)
	if err != nil {
		dbClient.Close()
		return nil, err
	}
	invoiceSvc, err := invoice.NewService(store, log)
	if err != nil {
		dbClient.Close()
		return nil, err
	}
	engine, err := reconcile.New(store, log)
	if err != nil {
		dbClient.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		dbClient:  dbClient,
		store:     store,
		products:  productSvc,
		customers: customerSvc,
		invoices:  invoiceSvc,
		engine:    engine,
	}, nil
}

func (a *app) close() {
	if err := a.dbClient.Close(); err != nil {
		a.log.Error(context.Background(), "error closing database", err)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.New(logger.Options{ServiceName: "nectarbooks"}).Error(context.Background(), "command failed", err)
		os.Exit(1)
	}
}
