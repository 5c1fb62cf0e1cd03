package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr string
	flagServeJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views as a JSON API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe a running sdash API",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().BoolVar(&flagServeJSON, "log-json", false, "Log as JSON instead of text")
	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	addr := serveAddr(cfg)

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if flagServeJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}

	svc := server.New(server.Config{
		Addr:     addr,
		DataPath: dataPath(cfg),
		TopN:     topN(cfg, 0),
		Logger:   slog.New(handler),
	}, records)

	fmt.Printf("  sdash API listening on http://%s\n", addr)
	fmt.Printf("  Try: curl http://%s/v1/pages\n", addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr(loadConfig())
	client := server.NewClient(addr)

	fmt.Printf("  Address: http://%s\n", addr)
	st, err := client.Status(context.Background())
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s (up %s)\n", st.StartedAt.Local().Format(time.RFC3339), time.Since(st.StartedAt).Round(time.Second))
	fmt.Printf("  Data: %s\n", st.DataPath)
	fmt.Printf("  Rows: %s\n", formatNumber(int64(st.Rows)))
	fmt.Printf("  Countries: %d\n", st.Countries)
	fmt.Printf("  Years: %s\n", cli.FormatYearRange(st.FirstYear, st.LastYear))
	return nil
}

func serveAddr(cfg config.Config) string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}
