package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/storage"
)

func seedStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	ctx := context.Background()
	err := store.SaveRecord(ctx, core.Record{
		ID:          "r1",
		Amount:      "10.00",
		Description: "Bus ticket",
		Category:    "Transport",
		Date:        "2024-03-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestExportImportRoundTrip(t *testing.T) {
	src := seedStore(t)
	ctx := context.Background()
	src.SaveSettings(ctx, core.Settings{Theme: core.ThemeDark, Currency: core.EUR, Language: "en"})

	exporter := NewManager(src, nil, "", log.New(log.DefaultConfig()))
	exporter.now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var archive Archive
	if err := json.Unmarshal(buf.Bytes(), &archive); err != nil {
		t.Fatalf("archive is not valid JSON: %v", err)
	}
	if archive.ExportDate != "2024-03-20T00:00:00Z" {
		t.Fatalf("export date wrong: %q", archive.ExportDate)
	}

	dst := storage.NewMemoryStore()
	importer := NewManager(dst, nil, "", log.New(log.DefaultConfig()))
	n, err := importer.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d records, want 1", n)
	}

	got := dst.GetRecords(ctx)
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("records missing after import: %+v", got)
	}
	if s := dst.GetSettings(ctx); s.Currency != core.EUR || s.Theme != core.ThemeDark {
		t.Fatalf("settings not overwritten: %+v", s)
	}
}

func TestImportAppendsToExistingRecords(t *testing.T) {
	ctx := context.Background()
	src := seedStore(t)

	var buf bytes.Buffer
	if err := NewManager(src, nil, "", log.New(log.DefaultConfig())).Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	dst := seedStore(t) // already holds one record
	if _, err := NewManager(dst, nil, "", log.New(log.DefaultConfig())).Import(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	if got := dst.GetRecords(ctx); len(got) != 2 {
		t.Fatalf("import must append, not replace: %+v", got)
	}
}

func TestReimportIntoSQLiteStore(t *testing.T) {
	ctx := context.Background()
	logger := log.New(log.DefaultConfig())

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.SaveRecord(ctx, core.Record{
		ID:          "r1",
		Amount:      "10.00",
		Description: "Bus ticket",
		Category:    "Transport",
		Date:        "2024-03-01",
	}); err != nil {
		t.Fatal(err)
	}

	m := NewManager(store, nil, "", logger)
	var buf bytes.Buffer
	if err := m.Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	// Re-importing an archive whose ids are already present still appends.
	n, err := m.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d records, want 1", n)
	}
	got := store.GetRecords(ctx)
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r1" {
		t.Fatalf("re-import must concatenate: %+v", got)
	}
}

func TestImportRejectsMalformedArchive(t *testing.T) {
	ctx := context.Background()
	dst := seedStore(t)
	rec := notify.NewRecorder(10)
	m := NewManager(dst, rec, "", log.New(log.DefaultConfig()))

	_, err := m.Import(ctx, strings.NewReader("this is not json"))
	if err == nil {
		t.Fatal("expected error for malformed archive")
	}

	// Nothing was written.
	if got := dst.GetRecords(ctx); len(got) != 1 {
		t.Fatalf("malformed import must not touch the store: %+v", got)
	}

	events := rec.Events()
	if len(events) != 1 || events[0].Severity != core.SeverityUrgent {
		t.Fatalf("urgent advisory missing: %+v", events)
	}
}

func TestImportRequiresRecordsArray(t *testing.T) {
	ctx := context.Background()
	dst := seedStore(t)
	rec := notify.NewRecorder(10)
	m := NewManager(dst, rec, "", log.New(log.DefaultConfig()))

	// Valid JSON, but no records array: still not an archive.
	_, err := m.Import(ctx, strings.NewReader(`{"settings":{"currency":"EUR"}}`))
	if err == nil {
		t.Fatal("expected error when records array is missing")
	}
	if s := dst.GetSettings(ctx); s.Currency != core.USD {
		t.Fatalf("aborted import must not touch settings: %+v", s)
	}
	if events := rec.Events(); len(events) != 1 || events[0].Severity != core.SeverityUrgent {
		t.Fatalf("urgent advisory missing: %+v", events)
	}
}

func TestImportWithoutSettingsKeepsStored(t *testing.T) {
	ctx := context.Background()
	dst := storage.NewMemoryStore()
	dst.SaveSettings(ctx, core.Settings{Theme: core.ThemeDark, Currency: core.JPY, Language: "en"})

	m := NewManager(dst, nil, "", log.New(log.DefaultConfig()))
	if _, err := m.Import(ctx, strings.NewReader(`{"records":[]}`)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if s := dst.GetSettings(ctx); s.Currency != core.JPY {
		t.Fatalf("settings overwritten despite absent block: %+v", s)
	}
}

func TestEncryptedArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := seedStore(t)

	m := NewManager(src, nil, "hunter2", log.New(log.DefaultConfig()))
	var buf bytes.Buffer
	if err := m.Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	if !isEncrypted(buf.Bytes()) {
		t.Fatal("archive not encrypted despite passphrase")
	}

	dst := storage.NewMemoryStore()
	importer := NewManager(dst, nil, "hunter2", log.New(log.DefaultConfig()))
	if _, err := importer.Import(ctx, &buf); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := dst.GetRecords(ctx); len(got) != 1 {
		t.Fatalf("round trip through encryption failed: %+v", got)
	}
}

func TestImportWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	src := seedStore(t)

	var buf bytes.Buffer
	if err := NewManager(src, nil, "right", log.New(log.DefaultConfig())).Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	rec := notify.NewRecorder(10)
	dst := storage.NewMemoryStore()
	if _, err := NewManager(dst, rec, "wrong", log.New(log.DefaultConfig())).Import(ctx, &buf); err == nil {
		t.Fatal("expected decrypt failure")
	}
	if events := rec.Events(); len(events) != 1 || events[0].Severity != core.SeverityUrgent {
		t.Fatalf("urgent advisory missing: %+v", events)
	}
}
