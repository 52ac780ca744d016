package backend

import (
	"context"

	"fintrack/internal/core"
)

// Ports for the storage collaborators. The core and its callers only ever
// see these interfaces; the concrete store is chosen by the factory.
type (
	// RecordStore persists the ordered record collection. Reads never fail
	// to the caller: a missing or malformed blob degrades to an empty
	// collection.
	RecordStore interface {
		// GetRecords returns the records in insertion order.
		GetRecords(ctx context.Context) []core.Record

		// SaveRecord appends one record to the collection.
		SaveRecord(ctx context.Context, r core.Record) error

		// UpdateRecord merges the patch over the stored record and
		// refreshes its UpdatedAt timestamp. Returns
		// core.ErrRecordNotFound when the id is absent.
		UpdateRecord(ctx context.Context, id string, patch core.RecordPatch) (core.Record, error)

		// DeleteRecord removes the record; deleting an absent id is a
		// no-op, not an error.
		DeleteRecord(ctx context.Context, id string) error

		// Reset drops every record.
		Reset(ctx context.Context) error
	}

	// SettingsStore persists the user's preferences. Missing keys come back
	// filled with defaults.
	SettingsStore interface {
		GetSettings(ctx context.Context) core.Settings
		SaveSettings(ctx context.Context, s core.Settings) error
	}

	// Store is the unified storage surface the application works against.
	Store interface {
		RecordStore
		SettingsStore
	}
)
