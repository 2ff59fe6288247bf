package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bilancio/internal/amqp"
	"bilancio/internal/cli"
	"bilancio/internal/core"
	"bilancio/internal/remote"
	gsheet "bilancio/internal/remote/google"
	"bilancio/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting bilancio-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := core.DefaultRegistry()

	// The archive target: Google Sheets when configured, SQLite otherwise.
	var archiver remote.Archiver
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.NewFromEnv(ctx, reg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		archiver = sheetsClient
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		repo, err := storage.NewRepository(cfg.SQLiteDBPath, reg)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		archiver = repo
		logger.Info("SQLite archive initialized", "path", cfg.SQLiteDBPath)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	handler := func(msg *amqp.BudgetSavedMessage) error {
		snap := msg.Snapshot(reg)
		ref, err := archiver.Archive(ctx, snap)
		if err != nil {
			return err
		}
		logger.Info("Budget snapshot archived",
			"ref", ref,
			"income", snap.Income,
			"total_expenses", snap.TotalExpenses)
		return nil
	}

	if err := amqpClient.ConsumeBudgetSaved(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
