package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/comtec/field-reports/internal/config"
	"github.com/comtec/field-reports/internal/service/report"
)

const dateFormat = "2006-01-02"

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reportSvc *report.Service
	cfg       config.SchedulerConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, reportSvc *report.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		reportSvc: reportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	// Resolve today's archive folder shortly after midnight so the first
	// submission of the day does not race the folder creation.
	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.warmDateFolder)
	if err != nil {
		s.logger.Error("failed to schedule folder warmup", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) warmDateFolder() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := time.Now().UTC().Format(dateFormat)
	folderID, err := s.reportSvc.EnsureDateFolder(ctx, date)
	if err != nil {
		s.logger.Error("failed to warm date folder", zap.String("fecha", date), zap.Error(err))
		return
	}

	s.logger.Info("date folder ready", zap.String("fecha", date), zap.String("folder_id", folderID))
}
