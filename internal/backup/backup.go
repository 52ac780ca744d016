package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"filippo.io/age"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Archive is the portable snapshot format: the full record collection, the
// preferences and the moment the snapshot was taken.
type Archive struct {
	Records    []core.Record `json:"records"`
	Settings   core.Settings `json:"settings"`
	ExportDate string        `json:"exportDate"`
}

// Manager exports and imports snapshots of the store. With a passphrase set
// the archive bytes are encrypted with age scrypt recipients.
type Manager struct {
	store      backend.Store
	notifier   core.Notifier
	passphrase string
	logger     *log.Logger

	now func() time.Time
}

func NewManager(store backend.Store, notifier core.Notifier, passphrase string, logger *log.Logger) *Manager {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Manager{
		store:      store,
		notifier:   notifier,
		passphrase: passphrase,
		logger:     logger.WithComponent(log.ComponentBackup),
		now:        time.Now,
	}
}

// Export writes the current store contents to w as a JSON archive.
func (m *Manager) Export(ctx context.Context, w io.Writer) error {
	archive := Archive{
		Records:    m.store.GetRecords(ctx),
		Settings:   m.store.GetSettings(ctx),
		ExportDate: m.now().UTC().Format(time.RFC3339),
	}
	if archive.Records == nil {
		archive.Records = []core.Record{}
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	if m.passphrase != "" {
		data, err = m.encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt archive: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	m.logger.Info("Exported archive", log.FieldCount, len(archive.Records))
	return nil
}

// Import merges an archive into the store: records are appended to the
// existing collection, settings overwrite the stored ones. A malformed
// archive aborts before anything is written and raises an urgent advisory.
func (m *Manager) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read archive: %w", err)
	}

	if m.passphrase != "" && isEncrypted(data) {
		data, err = m.decrypt(data)
		if err != nil {
			m.notifier.Notify("import failed: archive could not be decrypted", core.SeverityUrgent)
			return 0, fmt.Errorf("decrypt archive: %w", err)
		}
	}

	// Records is required; settings only overwrite when the archive has them.
	var archive struct {
		Records    *[]core.Record `json:"records"`
		Settings   *core.Settings `json:"settings"`
		ExportDate string         `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &archive); err != nil {
		m.notifier.Notify("import failed: file is not a valid archive", core.SeverityUrgent)
		return 0, fmt.Errorf("decode archive: %w", err)
	}
	if archive.Records == nil {
		m.notifier.Notify("import failed: file is not a valid archive", core.SeverityUrgent)
		return 0, fmt.Errorf("decode archive: missing records")
	}

	for _, rec := range *archive.Records {
		if err := m.store.SaveRecord(ctx, rec); err != nil {
			return 0, fmt.Errorf("import record %s: %w", rec.ID, err)
		}
	}
	if archive.Settings != nil {
		if err := m.store.SaveSettings(ctx, archive.Settings.Sanitized()); err != nil {
			return 0, fmt.Errorf("import settings: %w", err)
		}
	}

	count := len(*archive.Records)
	m.logger.Info("Imported archive",
		log.FieldCount, count,
		"export_date", archive.ExportDate)
	m.notifier.Notify(fmt.Sprintf("imported %d records", count), core.SeverityInfo)
	return count, nil
}

func (m *Manager) encrypt(data []byte) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(m.passphrase)
	if err != nil {
		return nil, err
	}
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

func (m *Manager) decrypt(data []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(m.passphrase)
	if err != nil {
		return nil, err
	}
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func isEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte("age-encryption.org"))
}
