package migration

import (
	commissiondomain "github.com/nadeos/bmd-exporter/internal/commission/domain"
	"github.com/nadeos/bmd-exporter/internal/config"
	"github.com/nadeos/bmd-exporter/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// sqlite is the local development setup; gorm builds the
		// tables from the models there.
		if cfg.DBType == "sqlite" {
			if err := conn.AutoMigrate(&commissiondomain.Group{}, &commissiondomain.Number{}); err != nil {
				return err
			}
		} else {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
				return err
			}
		}

		if cfg.Environment == "development" {
			return seed.EnsureDemoGroups(conn)
		}
		return nil
	}),
)
