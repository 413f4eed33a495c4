package main

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nadeos/bmd-exporter/internal/config"
	"github.com/nadeos/bmd-exporter/internal/logger"
	"github.com/nadeos/bmd-exporter/internal/providers/email"
	"github.com/nadeos/bmd-exporter/internal/storage"
	"github.com/nadeos/bmd-exporter/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "exportctl",
	Short:         "Run BMD exports and commission reports from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app bundles the dependencies the subcommands share. The CLI talks to
// the same database and export directory as the server, without the
// HTTP surface.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	db   *gorm.DB
	sink storage.Sink
	node *snowflake.Node
}

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:  cfg,
		log:  log,
		db:   conn,
		sink: storage.NewLocalSink(cfg),
		node: node,
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func newMailer(cfg config.Config) (email.Provider, error) {
	return email.NewSMTP(cfg)
}

// monthFromFlags resolves --year/--month, defaulting to the previous
// month when both are unset.
func monthFromFlags(cmd *cobra.Command) (time.Time, error) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")

	if year == 0 && month == 0 {
		now := time.Now().UTC()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, -1, 0), nil
	}
	if year < 2000 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid period %d-%d", year, month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func addMonthFlags(cmd *cobra.Command) {
	cmd.Flags().Int("year", 0, "Year of the export period (default: previous month)")
	cmd.Flags().Int("month", 0, "Month of the export period, 1-12 (default: previous month)")
}
