package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nadeos/bmd-exporter/internal/bmdexport"
	"github.com/nadeos/bmd-exporter/internal/commission"
	"github.com/nadeos/bmd-exporter/internal/config"
	"github.com/nadeos/bmd-exporter/internal/logger"
	"github.com/nadeos/bmd-exporter/internal/metrics"
	"github.com/nadeos/bmd-exporter/internal/migration"
	"github.com/nadeos/bmd-exporter/internal/providers/email"
	"github.com/nadeos/bmd-exporter/internal/scheduler"
	"github.com/nadeos/bmd-exporter/internal/server"
	"github.com/nadeos/bmd-exporter/internal/shrink"
	"github.com/nadeos/bmd-exporter/internal/storage"
	"github.com/nadeos/bmd-exporter/internal/tax"
	"github.com/nadeos/bmd-exporter/internal/toprevenue"
	"github.com/nadeos/bmd-exporter/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		metrics.Module,
		storage.Module,
		email.Module,

		// Functional domains
		tax.Module,
		bmdexport.Module,
		commission.Module,
		toprevenue.Module,
		shrink.Module,

		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
