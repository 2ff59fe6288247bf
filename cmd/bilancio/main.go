package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/cli"
	"bilancio/internal/core"
	apphttp "bilancio/internal/http"
	"bilancio/internal/session"
	"bilancio/internal/syncer"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := core.DefaultRegistry()

	factory := backend.NewFactory(logger)
	res, err := factory.CreateStore(ctx, cfg, reg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	sess := session.New(core.NewAggregator(reg))

	engine := syncer.New(res.Store, sess, syncer.Config{
		PushDebounce: cfg.PushDebounce,
		PullInterval: cfg.PullInterval,
	}, nil)
	sess.SetNotify(engine.OnSnapshot)

	if err := engine.Start(ctx); err != nil {
		logger.Error("Failed to start sync engine", "error", err)
		os.Exit(1)
	}

	// AMQP is optional: without it, explicit saves simply skip the archive event.
	var notify apphttp.SaveNotifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without archive events", "error", err)
		} else {
			defer amqpClient.Close()
			notify = func(ctx context.Context, s core.Snapshot) {
				if err := amqpClient.PublishBudgetSaved(ctx, s); err != nil {
					slog.WarnContext(ctx, "Failed to publish budget saved event", "error", err)
				}
			}
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, sess, res.Store, notify)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting bilancio server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Drain in-flight requests first so no edit served during
		// shutdown can reach an already-stopped engine.
		shutdownErr := srv.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Error("Server shutdown error", "error", shutdownErr)
		}
		if err := engine.Stop(shutdownCtx); err != nil {
			logger.Error("Sync engine stop error", "error", err)
		}
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
