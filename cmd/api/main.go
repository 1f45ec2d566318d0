package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/config"
	"github.com/suPer8Hu/journal-terminal/internal/db"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi/handlers"
	"github.com/suPer8Hu/journal-terminal/internal/logging"
	"github.com/suPer8Hu/journal-terminal/internal/store/rabbitmq"
	"github.com/suPer8Hu/journal-terminal/internal/store/redisstore"
)

func main() {
	var cfgPath, addr string

	root := &cobra.Command{
		Use:   "api",
		Short: "Journal terminal HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&cfgPath, "config", "c", "journal.yaml", "path to YAML config")
	root.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

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

	deps := handlers.Deps{DB: gdb, Cfg: cfg, Log: log, Registry: reg}

	// redis and rabbit are optional; their routes answer 503 without them
	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, config.Duration(cfg.ImageCacheTTL, 24*time.Hour))
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rds.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, prefs and image cache disabled", zap.Error(err))
		_ = rds.Close()
	} else {
		defer rds.Close()
		deps.Prefs = rds
		deps.Images = rds
	}
	cancel()

	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Warn("rabbitmq unavailable, summary jobs disabled", zap.Error(err))
	} else {
		defer pub.Close()
		deps.Publisher = pub
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api listening", zap.String("addr", cfg.HTTPAddr), zap.String("ai_provider", cfg.AIProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
