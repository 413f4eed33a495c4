package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nadeos/bmd-exporter/internal/bmdexport"
	"github.com/nadeos/bmd-exporter/internal/clock"
	"github.com/nadeos/bmd-exporter/internal/commission"
	"github.com/nadeos/bmd-exporter/internal/metrics"
	"github.com/nadeos/bmd-exporter/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log           *zap.Logger
	ExportSvc     *bmdexport.Service
	CommissionSvc *commission.Service
	Renderer      *commission.StatementRenderer
	Sink          storage.Sink
	Prom          *metrics.Metrics

	Clock  clock.Clock `optional:"true"`
	Config Config      `optional:"true"`
}

// Scheduler produces the monthly BMD exports and commission statements
// in the background. Each job runs at most once per month; completed
// periods are tracked in memory, so a restart re-runs the jobs and
// overwrites the files under the export directory.
type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	exportSvc     *bmdexport.Service
	commissionSvc *commission.Service
	renderer      *commission.StatementRenderer
	sink          storage.Sink
	prom          *metrics.Metrics

	mu   sync.Mutex
	done map[string]struct{}
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.ExportSvc == nil || p.CommissionSvc == nil || p.Renderer == nil || p.Sink == nil || p.Prom == nil {
		return nil, ErrInvalidConfig
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		clock:         clk,
		exportSvc:     p.ExportSvc,
		commissionSvc: p.CommissionSvc,
		renderer:      p.Renderer,
		sink:          p.Sink,
		prom:          p.Prom,
		done:          map[string]struct{}{},
	}, nil
}

// RunOnce executes every due job for the previous month.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.clock.Now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	jobs := []struct {
		Name string
		Run  func(context.Context, time.Time) error
	}{
		{"orders_export", s.ordersExportJob},
		{"customers_export", s.customersExportJob},
		{"commission_statements", s.commissionStatementsJob},
	}

	var err error
	for _, job := range jobs {
		err = errors.Join(err, s.runJob(ctx, job.Name, month, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runJob(parent context.Context, name string, month time.Time, fn func(context.Context, time.Time) error) error {
	key := fmt.Sprintf("%s:%d-%02d", name, month.Year(), int(month.Month()))

	s.mu.Lock()
	_, ran := s.done[key]
	s.mu.Unlock()
	if ran {
		return nil
	}

	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	start := s.clock.Now()
	s.log.Info("job started",
		zap.String("job", name),
		zap.Int("year", month.Year()),
		zap.Int("month", int(month.Month())),
	)

	if err := fn(ctx, month); err != nil {
		s.prom.SchedulerRunsTotal.WithLabelValues(name, "error").Inc()
		s.log.Error("job failed",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", name, err)
	}

	s.mu.Lock()
	s.done[key] = struct{}{}
	s.mu.Unlock()

	s.prom.SchedulerRunsTotal.WithLabelValues(name, "ok").Inc()
	s.log.Info("job finished",
		zap.String("job", name),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) ordersExportJob(ctx context.Context, month time.Time) error {
	return s.exportToSink(ctx, bmdexport.KindOrders, month)
}

func (s *Scheduler) customersExportJob(ctx context.Context, month time.Time) error {
	return s.exportToSink(ctx, bmdexport.KindCustomers, month)
}

func (s *Scheduler) exportToSink(ctx context.Context, kind bmdexport.Kind, month time.Time) error {
	var buf bytes.Buffer
	if err := s.exportSvc.Export(ctx, kind, month, &buf); err != nil {
		return err
	}
	name := fmt.Sprintf("%d_%02d_%s.csv", month.Year(), int(month.Month()), kind)
	return s.sink.Write(storage.DirExports, name, buf.Bytes())
}

func (s *Scheduler) commissionStatementsJob(ctx context.Context, month time.Time) error {
	commissions, err := s.commissionSvc.List(ctx, month, "")
	if err != nil {
		return err
	}

	var jobErr error
	for _, c := range commissions {
		if ctx.Err() != nil {
			return errors.Join(jobErr, ctx.Err())
		}
		if err := s.renderer.Save(ctx, c); err != nil {
			jobErr = errors.Join(jobErr, fmt.Errorf("group %s: %w", c.GroupName, err))
		}
	}
	return jobErr
}
