package model

import (
	"time"
)

// Deployment target values.
const (
	TargetNone          = "none"
	TargetObjectStorage = "objectStorage"
	TargetGitHosting    = "gitHosting"
)

// Deployment stores one record per completed generate+deploy operation.
type Deployment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// RecordID is the opaque handle all update/delete operations key on.
	RecordID string `gorm:"column:record_id;uniqueIndex:idx_record" json:"record_id,omitempty"`
	// LogicalName is the human readable subject name; not unique.
	LogicalName string `gorm:"column:logical_name;index:idx_deployment_name" json:"logical_name,omitempty"`
	// StoragePrefix is derived once at creation and never recomputed, so
	// re-deploys and teardown always target the same object set.
	StoragePrefix string `gorm:"column:storage_prefix" json:"storage_prefix,omitempty"`
	Target        string `gorm:"column:target" json:"target,omitempty"`
	PublicURL     string `gorm:"column:public_url;type:text" json:"public_url,omitempty"`
	PreviewURL    string `gorm:"column:preview_url;type:text" json:"preview_url,omitempty"`
	// Metadata carries the subject's descriptive fields as opaque JSON.
	Metadata string `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
}

// TableName overrides gorm to use deployment table.
func (Deployment) TableName() string {
	return "deployment"
}

// IsValidTarget reports whether target is one of the supported destinations.
func IsValidTarget(target string) bool {
	switch target {
	case TargetNone, TargetObjectStorage, TargetGitHosting:
		return true
	}
	return false
}
