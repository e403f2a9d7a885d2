package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType classifies what a stored document evidences.
type DocumentType string

const (
	TypeGRN                DocumentType = "grn"
	TypeQualityCertificate DocumentType = "quality_certificate"
)

// Document is the persisted metadata of a stored procurement document.
// The binary itself lives behind the StorageDriver under Key.
type Document struct {
	ID             uuid.UUID    `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	CreatedAt      time.Time    `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	OrganizationID string       `gorm:"type:varchar(64);column:organization_id;not null;index" json:"organizationId"`
	Type           DocumentType `gorm:"type:varchar(32);column:type;not null" json:"type"`
	Reference      string       `gorm:"type:varchar(64);column:reference;index" json:"reference"` // GRN number or order id
	Name           string       `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Key            string       `gorm:"type:varchar(512);column:key;not null;uniqueIndex" json:"key"`
	Size           int64        `gorm:"column:size;not null" json:"size"`
	MimeType       string       `gorm:"type:varchar(128);column:mime_type" json:"mimeType"`
	URL            string       `gorm:"-" json:"url,omitempty"`
}

// TableName returns the table name for the Document model.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	d.CreatedAt = time.Now().UTC()
	return
}
