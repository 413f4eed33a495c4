package scheduler

import (
	"context"

	"github.com/nadeos/bmd-exporter/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(NewScheduler),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval: cfg.SchedulerInterval,
		JobTimeout:  cfg.SchedulerTimeout,
	}
}

// NewScheduler starts the background loop. An interval of 0 leaves the
// scheduler off, which is the default for deployments that trigger the
// exports over HTTP or the CLI.
func NewScheduler(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if cfg.SchedulerInterval <= 0 {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
