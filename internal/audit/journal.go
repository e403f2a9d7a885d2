package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Entry represents one audit record in the journal. OldValue, NewValue and
// Metadata are stored as raw JSON so callers decide the payload shape.
type Entry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID string          `gorm:"type:varchar(100);index;not null" json:"organizationId"`
	Action         string          `gorm:"type:varchar(100);not null" json:"action"`
	TargetTable    string          `gorm:"type:varchar(100);column:table_name;not null" json:"tableName"`
	OldValue       json.RawMessage `gorm:"type:json" json:"oldValue,omitempty"`
	NewValue       json.RawMessage `gorm:"type:json" json:"newValue,omitempty"`
	Metadata       json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for audit entries
func (Entry) TableName() string {
	return "audit_entries"
}

// Journal is an append-only audit sink backed by its own SQLite database.
// Writers are expected to treat failures as non-fatal; the journal exists for
// traceability, not correctness.
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a Journal backed by a SQLite database at dbPath.
func NewJournal(dbPath string) (*Journal, error) {
	if dbPath == "" {
		dbPath = "audit.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}

	return &Journal{db: db}, nil
}

// NewInMemoryJournal creates a Journal with an in-memory SQLite database (useful for testing)
func NewInMemoryJournal() (*Journal, error) {
	return NewJournal(":memory:")
}

// Record appends an entry to the journal.
func (j *Journal) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return j.db.WithContext(ctx).Create(entry).Error
}

// Recent returns the most recent entries for an organization, newest first.
func (j *Journal) Recent(ctx context.Context, organizationID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []Entry
	err := j.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// Close closes the journal's database connection
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
