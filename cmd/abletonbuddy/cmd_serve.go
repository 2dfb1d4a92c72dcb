package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rp-bot/AbletonBuddy/internal/agents"
	"github.com/rp-bot/AbletonBuddy/internal/catalog"
	"github.com/rp-bot/AbletonBuddy/internal/delivery"
	"github.com/rp-bot/AbletonBuddy/internal/httpapi"
	"github.com/rp-bot/AbletonBuddy/internal/osc"
	"github.com/rp-bot/AbletonBuddy/internal/pipeline"
	"github.com/rp-bot/AbletonBuddy/internal/scheduler"
	"github.com/rp-bot/AbletonBuddy/internal/store"
	"github.com/rp-bot/AbletonBuddy/internal/telegram"
	"github.com/rp-bot/AbletonBuddy/internal/types"
	"github.com/rp-bot/AbletonBuddy/pkg/llm"
	"github.com/rp-bot/AbletonBuddy/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the abletonbuddy daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "abletonbuddy.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)
	logger := slog.Default()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	// Store
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// OSC transport
	transport := osc.New(osc.Config{
		Host:        cfg.OSC.Host,
		SendPort:    cfg.OSC.SendPort,
		ReceivePort: cfg.OSC.ReceivePort,
		Live:        cfg.OSC.Live,
	})
	if err := transport.Start(); err != nil {
		return fmt.Errorf("start osc transport: %w", err)
	}
	defer transport.Close()

	// Tool catalog
	cat, err := catalog.New(transport, time.Duration(cfg.OSC.TimeoutMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	// Interpreter and executor
	var (
		interp agents.Interpreter
		exec   agents.Executor
	)
	interpMode := "rules"
	if cfg.UseLLM() {
		interpMode = "llm"
		provider := openai.New(&llm.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		window, err := agents.NewWindow(cfg.LLM.Model, cfg.LLM.MaxContextTokens, cfg.LLM.OutputReserve)
		if err != nil {
			return fmt.Errorf("create token window: %w", err)
		}
		a := agents.NewLLM(provider, window, cfg.LLM.MaxToolRounds, logger)
		interp, exec = a, a
	} else {
		r := agents.NewRules()
		interp, exec = r, r
	}

	// Pipeline
	streams := pipeline.NewStreams()
	orch := pipeline.New(st, cat, interp, exec, streams, logger)

	// Delivery registry; the "log" channel is built in
	deliveries := delivery.NewRegistry(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Telegram adapter
	if cfg.Telegram.Token != "" {
		adapter, err := telegram.New(cfg.Telegram.Token, orch, st, logger)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		deliveries.Register("telegram", adapter.Deliver)
		g.Go(func() error {
			adapter.Start(ctx)
			return nil
		})
		logger.Info("telegram adapter started")
	} else {
		logger.Warn("telegram adapter disabled (no token)")
	}

	// Scheduler
	sched := scheduler.New(st, func(a *types.Automation) {
		runAutomation(ctx, st, orch, deliveries, logger, a)
	})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	// SIGHUP reloads automations without a restart.
	sigHup := make(chan os.Signal, 1)
	signal.Notify(sigHup, syscall.SIGHUP)
	defer signal.Stop(sigHup)
	g.Go(func() error {
		for {
			select {
			case <-sigHup:
				if err := sched.Reload(ctx); err != nil {
					logger.Error("scheduler reload failed", "error", err)
				} else {
					logger.Info("scheduler reloaded")
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	// HTTP server
	api := httpapi.New(st, orch, streams, cfg.HTTP.AllowedOrigins, logger)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.Router(),
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("abletonbuddy started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"http_addr", cfg.HTTP.Addr,
		"osc_host", cfg.OSC.Host,
		"osc_send_port", cfg.OSC.SendPort,
		"osc_receive_port", cfg.OSC.ReceivePort,
		"osc_live", cfg.OSC.Live,
		"interpreter", interpMode,
		"pid_file", pidPath,
	)

	err = g.Wait()
	logger.Info("shutting down")
	return err
}

// runAutomation plays one stored command through the pipeline and routes
// the assistant's reply to the automation's delivery channel.
func runAutomation(ctx context.Context, st *store.Store, orch *pipeline.Orchestrator, deliveries *delivery.Registry, logger *slog.Logger, a *types.Automation) {
	id := a.ThreadID
	if id == "" {
		th, err := st.Create(ctx)
		if err != nil {
			logger.Error("automation thread create failed", "automation", a.Name, "error", err)
			return
		}
		id = th.ID
		a.ThreadID = id
		if err := st.PutAutomation(ctx, a); err != nil {
			logger.Warn("automation thread pin failed", "automation", a.Name, "error", err)
		}
	}

	h, err := orch.StartTurn(ctx, id, a.Command)
	if err != nil {
		if errors.Is(err, pipeline.ErrActiveRun) {
			logger.Warn("automation skipped, thread busy", "automation", a.Name, "thread", id)
			return
		}
		logger.Error("automation start failed", "automation", a.Name, "error", err)
		return
	}
	defer orch.Release(h)

	result, err := pipeline.CollectAssistant(ctx, h)
	if err != nil {
		logger.Error("automation run failed", "automation", a.Name, "error", err)
		return
	}

	dest := a.Deliver
	if dest == "" {
		dest = "log:" + a.Name
	}
	if err := deliveries.Deliver(dest, result); err != nil {
		logger.Error("automation delivery failed", "automation", a.Name, "channel", dest, "error", err)
	}
}
