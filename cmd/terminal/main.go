package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/config"
	"github.com/suPer8Hu/journal-terminal/internal/gateway"
	"github.com/suPer8Hu/journal-terminal/internal/logging"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
	"github.com/suPer8Hu/journal-terminal/internal/tui"
)

type options struct {
	apiURL   string
	stateDir string
	logFile  string
	logLevel string
	noBoot   bool
}

func main() {
	var o options

	root := &cobra.Command{
		Use:   "terminal",
		Short: "Journal terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
		SilenceUsage: true,
	}
	f := root.Flags()
	f.StringVar(&o.apiURL, "api", envOr("JOURNAL_API", "http://localhost:8080"), "journal API base URL")
	f.StringVar(&o.stateDir, "state-dir", "", "directory for prefs and device identity (default: user config dir)")
	f.StringVar(&o.logFile, "log-file", "", "log file (default: <state-dir>/terminal.log)")
	f.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVar(&o.noBoot, "no-boot", false, "skip the splash and boot sequence")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	dir := o.stateDir
	if dir == "" {
		d, err := prefs.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if o.logFile == "" {
		o.logFile = filepath.Join(dir, "terminal.log")
	}

	// the screen belongs to the UI, so logs only go to the file
	log := logging.Must(config.LogConfig{Level: o.logLevel, File: o.logFile})
	defer func() { _ = log.Sync() }()

	client := gateway.New(o.apiURL, &http.Client{Timeout: 30 * time.Second})

	regCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	deviceID, err := register(regCtx, client, filepath.Join(dir, "device_id"))
	cancel()
	if err != nil {
		return fmt.Errorf("connect to %s: %w", o.apiURL, err)
	}
	log.Info("device registered", zap.String("device_id", deviceID), zap.String("api", o.apiURL))

	scoped := prefs.Open(ctx, prefs.NewFileStore(dir), deviceID, log, time.Now())

	stream := gateway.NewChat(client)
	defer stream.Cancel()

	m := tui.New(tui.Options{
		API:    client,
		Chat:   stream,
		Prefs:  scoped,
		Log:    log,
		NoBoot: o.noBoot,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// register reuses the stored device id when there is one and records a freshly minted one.
func register(ctx context.Context, c *gateway.Client, path string) (string, error) {
	var known string
	if b, err := os.ReadFile(path); err == nil {
		known = strings.TrimSpace(string(b))
	}
	d, err := c.RegisterDevice(ctx, known)
	if err != nil {
		return "", err
	}
	if d.DeviceID != known {
		if err := os.WriteFile(path, []byte(d.DeviceID+"\n"), 0o600); err != nil {
			return "", fmt.Errorf("save device id: %w", err)
		}
	}
	return d.DeviceID, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
