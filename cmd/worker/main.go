package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/config"
	"github.com/suPer8Hu/journal-terminal/internal/db"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/logging"
	"github.com/suPer8Hu/journal-terminal/internal/store/rabbitmq"
)

func clampConcurrency(n int) int {
	if n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	var cfgPath string
	var concurrency int

	root := &cobra.Command{
		Use:   "worker",
		Short: "Turns finished chat sessions into journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.WorkerConcurrency = concurrency
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&cfgPath, "config", "c", "journal.yaml", "path to YAML config")
	root.Flags().IntVar(&concurrency, "concurrency", 0, "parallel jobs (overrides config)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := ai.NewRegistryFromConfig(cfg)
	if err := reg.Validate(cfg.AIProvider); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	gdb, err := db.Open(cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		return err
	}

	model := ""
	switch cfg.AIProvider {
	case "openai":
		model = cfg.OpenAIModel
	case "openrouter":
		model = cfg.OpenRouterModel
	}
	svc := chat.NewService(chat.NewRepo(gdb), reg, cfg.AIProvider, model,
		cfg.ChatContextWindowSize, log)
	entries := journal.NewService(journal.NewRepo(gdb))

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial: %w", err)
	}
	defer conn.Close()

	n := clampConcurrency(cfg.WorkerConcurrency)
	log.Info("worker started", zap.String("queue", cfg.RabbitQueue), zap.Int("concurrency", n))

	err = rabbitmq.Consume(ctx, conn, cfg.RabbitQueue, n, func(ctx context.Context, jobID string) error {
		return svc.RunSummaryJob(ctx, jobID, entries)
	}, log)
	if ctx.Err() != nil {
		log.Info("worker shutting down")
		return nil
	}
	// the broker stopped delivering; exit non-zero
	log.Error("consumer stopped", zap.Error(err))
	return err
}
