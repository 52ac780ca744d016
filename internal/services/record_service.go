package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/notify"
)

// RecordService orchestrates record operations across the store, the
// notification surface and the optional AMQP alert channel.
type RecordService struct {
	store      backend.Store
	notifier   core.Notifier
	amqpClient *amqp.Client
	logger     *log.Logger

	now   func() time.Time
	newID func() string
}

func NewRecordService(store backend.Store, notifier core.Notifier, amqpClient *amqp.Client, logger *log.Logger) *RecordService {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &RecordService{
		store:      store,
		notifier:   notifier,
		amqpClient: amqpClient,
		logger:     logger.WithComponent(log.ComponentRecords),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Create validates the candidate record and, when it passes, persists it with
// a fresh id and timestamps. A failed validation is not an error: the outcome
// is reported through the ValidationResult and nothing is stored.
func (s *RecordService) Create(ctx context.Context, candidate core.Record) (core.Record, core.ValidationResult, error) {
	result := core.ValidateRecord(candidate, s.notifier)
	if !result.OK() {
		return core.Record{}, result, nil
	}

	r := candidate.Normalized()
	r.ID = s.newID()
	now := s.now().UTC().Format(time.RFC3339)
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.store.SaveRecord(ctx, r); err != nil {
		return core.Record{}, result, fmt.Errorf("save record: %w", err)
	}

	s.logger.Info("Record created",
		log.FieldRecordID, r.ID,
		log.FieldCategory, r.Category,
		log.FieldAmount, r.Amount)

	s.reviewBudgets(ctx)
	return r, result, nil
}

// Update merges the patch over the stored record, re-validates the merged
// result and persists it only when it still passes every rule.
func (s *RecordService) Update(ctx context.Context, id string, patch core.RecordPatch) (core.Record, core.ValidationResult, error) {
	existing, ok := s.find(ctx, id)
	if !ok {
		return core.Record{}, core.ValidationResult{}, core.ErrRecordNotFound
	}

	merged := patch.Apply(existing)
	result := core.ValidateRecord(merged, s.notifier)
	if !result.OK() {
		return core.Record{}, result, nil
	}

	normalized := merged.Normalized()
	full := core.RecordPatch{
		Amount:      &normalized.Amount,
		Description: &normalized.Description,
		Category:    &normalized.Category,
		Date:        &normalized.Date,
	}
	updated, err := s.store.UpdateRecord(ctx, id, full)
	if err != nil {
		return core.Record{}, result, fmt.Errorf("update record: %w", err)
	}

	s.logger.Info("Record updated", log.FieldRecordID, id)
	s.reviewBudgets(ctx)
	return updated, result, nil
}

// Delete removes the record. Deleting an unknown id is a no-op.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	s.logger.Info("Record deleted", log.FieldRecordID, id)
	return nil
}

// List returns the stored records filtered and ordered by the criteria.
func (s *RecordService) List(ctx context.Context, criteria core.Criteria) []core.Record {
	return core.SearchAndSort(s.store.GetRecords(ctx), criteria)
}

// Dashboard aggregates the full collection and re-raises any budget
// advisories through the notifier and, when configured, AMQP.
func (s *RecordService) Dashboard(ctx context.Context) core.Dashboard {
	return core.ComputeDashboard(s.store.GetRecords(ctx), s.now(), s.alertSink(ctx))
}

// Settings returns the stored preferences, sanitized.
func (s *RecordService) Settings(ctx context.Context) core.Settings {
	return s.store.GetSettings(ctx).Sanitized()
}

// SaveSettings persists the preferences after filling invalid enum values
// with defaults.
func (s *RecordService) SaveSettings(ctx context.Context, settings core.Settings) error {
	if err := s.store.SaveSettings(ctx, settings.Sanitized()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset drops every stored record.
func (s *RecordService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	s.logger.Info("Records reset")
	return nil
}

// MonthlyReport publishes the current month's summary over AMQP when the
// user opted in. Returns true when a report went out.
func (s *RecordService) MonthlyReport(ctx context.Context) (bool, error) {
	if s.amqpClient == nil {
		return false, nil
	}
	if !s.store.GetSettings(ctx).MonthlyReport {
		return false, nil
	}

	d := core.ComputeDashboard(s.store.GetRecords(ctx), s.now(), core.NopNotifier{})
	msg := amqp.NewMonthlyReportMessage(
		s.now().UTC().Format("2006-01"),
		d.Income.StringFixed(2),
		d.Expenses.StringFixed(2),
		d.Balance.StringFixed(2),
	)
	if err := s.amqpClient.PublishMonthlyReport(ctx, msg); err != nil {
		return false, fmt.Errorf("publish monthly report: %w", err)
	}
	return true, nil
}

func (s *RecordService) find(ctx context.Context, id string) (core.Record, bool) {
	for _, r := range s.store.GetRecords(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return core.Record{}, false
}

// reviewBudgets recomputes the dashboard after a write so that budget
// advisories fire as soon as a threshold is crossed, not only when the
// dashboard is next viewed.
func (s *RecordService) reviewBudgets(ctx context.Context) {
	core.ComputeDashboard(s.store.GetRecords(ctx), s.now(), s.alertSink(ctx))
}

func (s *RecordService) alertSink(ctx context.Context) core.Notifier {
	if s.amqpClient == nil {
		return s.notifier
	}
	return notify.Multi{s.notifier, &amqpAlertNotifier{ctx: ctx, client: s.amqpClient, logger: s.logger}}
}

// amqpAlertNotifier forwards budget advisories to the alert queue. Publish
// failures never surface to the caller; the advisory already reached the
// local notifier.
type amqpAlertNotifier struct {
	ctx    context.Context
	client *amqp.Client
	logger *log.Logger
}

func (n *amqpAlertNotifier) Notify(message string, severity core.Severity) {
	if severity == core.SeverityBlocking {
		return
	}
	msg := amqp.NewBudgetAlertMessage(message, string(severity))
	if err := n.client.PublishBudgetAlert(n.ctx, msg); err != nil {
		n.logger.Error("Failed to publish budget alert", log.FieldError, err)
	}
}
