package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReportSender mails the periodic directory report.
type ReportSender interface {
	SendWeeklyReport(ctx context.Context) error
}

const reportTimeout = 2 * time.Minute

// StartReportJob schedules reports.SendWeeklyReport on the given cron spec and
// starts the scheduler. Call Stop on the returned scheduler during shutdown.
func StartReportJob(schedule string, reports ReportSender, logger zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runReport(reports, logger)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info().Str("schedule", schedule).Msg("report scheduler started")
	return c, nil
}

func runReport(reports ReportSender, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	start := time.Now()
	if err := reports.SendWeeklyReport(ctx); err != nil {
		logger.Error().Err(err).Msg("weekly report failed")
		return
	}
	logger.Info().Dur("took", time.Since(start)).Msg("weekly report sent")
}
