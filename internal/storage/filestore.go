package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"filippo.io/age"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// The file store keeps two independent keyed blobs, mirroring the local
// key-value storage of the original client: a JSON array of records and a
// JSON object of settings.
const (
	recordsFile  = "records.json"
	settingsFile = "settings.json"

	ageHeader = "age-encryption.org"
)

// FileStore persists records and settings as JSON files in a directory,
// rewriting each blob in full on every mutation. With a passphrase set the
// blobs are encrypted at rest with age scrypt recipients.
type FileStore struct {
	mu        sync.Mutex
	dir       string
	logger    *log.Logger
	recipient *age.ScryptRecipient
	identity  *age.ScryptIdentity
	now       func() time.Time
}

func NewFileStore(dir, passphrase string, logger *log.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		logger: logger.WithComponent(log.ComponentStorage),
		now:    time.Now,
	}
	if passphrase != "" {
		recipient, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return nil, fmt.Errorf("create age recipient: %w", err)
		}
		identity, err := age.NewScryptIdentity(passphrase)
		if err != nil {
			return nil, fmt.Errorf("create age identity: %w", err)
		}
		s.recipient = recipient
		s.identity = identity
	}
	return s, nil
}

// GetRecords returns the stored collection in insertion order. Any read or
// parse failure is logged and degrades to an empty collection; the caller
// never sees an error.
func (s *FileStore) GetRecords(ctx context.Context) []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRecords(ctx)
}

func (s *FileStore) readRecords(ctx context.Context) []core.Record {
	data, err := s.readBlob(recordsFile)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.ErrorContext(ctx, "Failed reading records blob", log.FieldError, err)
		}
		return nil
	}
	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.ErrorContext(ctx, "Malformed records blob, serving empty collection", log.FieldError, err)
		return nil
	}
	return records
}

func (s *FileStore) SaveRecord(ctx context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.readRecords(ctx), r)
	if err := s.writeRecords(records); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	s.logger.InfoContext(ctx, "Record saved",
		log.FieldRecordID, r.ID,
		log.FieldCategory, r.Category,
		log.FieldAmount, r.Amount)
	return nil
}

func (s *FileStore) UpdateRecord(ctx context.Context, id string, patch core.RecordPatch) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readRecords(ctx)
	for i, r := range records {
		if r.ID != id {
			continue
		}
		updated := patch.Apply(r)
		updated.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		records[i] = updated
		if err := s.writeRecords(records); err != nil {
			return core.Record{}, fmt.Errorf("update record: %w", err)
		}
		s.logger.InfoContext(ctx, "Record updated", log.FieldRecordID, id)
		return updated, nil
	}
	return core.Record{}, core.ErrRecordNotFound
}

func (s *FileStore) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readRecords(ctx)
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil // absent id is a no-op
	}
	if err := s.writeRecords(kept); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	s.logger.InfoContext(ctx, "Record deleted", log.FieldRecordID, id)
	return nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeRecords([]core.Record{}); err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	s.logger.WarnContext(ctx, "All records cleared")
	return nil
}

// GetSettings returns the stored settings merged over defaults; a missing or
// malformed blob yields pure defaults.
func (s *FileStore) GetSettings(ctx context.Context) core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := core.DefaultSettings()
	data, err := s.readBlob(settingsFile)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.ErrorContext(ctx, "Failed reading settings blob", log.FieldError, err)
		}
		return settings
	}
	// Unmarshalling over the defaults keeps them for any missing key.
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.ErrorContext(ctx, "Malformed settings blob, serving defaults", log.FieldError, err)
		return core.DefaultSettings()
	}
	return settings.Sanitized()
}

func (s *FileStore) SaveSettings(ctx context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings.Sanitized(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.writeBlob(settingsFile, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Settings saved")
	return nil
}

func (s *FileStore) writeRecords(records []core.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return s.writeBlob(recordsFile, data)
}

func (s *FileStore) readBlob(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, fmt.Errorf("blob %s is encrypted but no passphrase is configured", name)
		}
		return decrypt(data, s.identity)
	}
	return data, nil
}

// writeBlob writes atomically via a temp file so a crashed write can never
// leave a truncated blob behind.
func (s *FileStore) writeBlob(name string, data []byte) error {
	if s.recipient != nil {
		encrypted, err := encrypt(data, s.recipient)
		if err != nil {
			return fmt.Errorf("encrypt blob: %w", err)
		}
		data = encrypted
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

func encrypt(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decrypt(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
