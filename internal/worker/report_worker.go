package worker

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// ReportWorker periodically publishes monthly summaries for users who opted
// in, and drains the alert queue into the log so queued advisories are not
// lost when no other consumer is attached.
type ReportWorker struct {
	svc      *services.RecordService
	client   *amqp.Client
	interval time.Duration
	logger   *log.Logger
}

func NewReportWorker(svc *services.RecordService, client *amqp.Client, interval time.Duration, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		svc:      svc,
		client:   client,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run publishes reports on every tick until the context is cancelled. The
// opt-in check happens inside the service, so a disabled setting costs one
// settings read per tick and nothing more.
func (w *ReportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Report worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Report worker stopping", log.FieldError, ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			published, err := w.svc.MonthlyReport(ctx)
			if err != nil {
				w.logger.Error("Monthly report failed", log.FieldError, err)
				continue
			}
			if published {
				w.logger.Info("Monthly report published")
			}
		}
	}
}

// ConsumeAlerts logs queued budget alerts until the context is cancelled.
func (w *ReportWorker) ConsumeAlerts(ctx context.Context) error {
	if w.client == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return w.client.ConsumeBudgetAlerts(ctx, func(msg *amqp.BudgetAlertMessage) error {
		w.logger.Info("Budget alert received",
			"message", msg.Message,
			log.FieldSeverity, msg.Severity)
		return nil
	})
}
