// Package domain defines the persistence models for projects, their client
// keys, error groups and the user feedback reports attached to them. These
// types are mapped with GORM and form the core data layer of the service.
package domain

import (
	"time"
)

// Project owns client keys, error groups and user reports. Its Origins list
// drives the CORS policy of the embeddable feedback widget.
//
// Fields:
//   - ID: numeric primary key; it is the last path segment of a DSN.
//   - Slug / Name: human identifiers.
//   - Origins: allowed web origins. nil means the option was never set and
//     behaves as ["*"]; an empty (non-nil) list allows no project origins.
type Project struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Slug      string    `json:"slug"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string    `json:"name"       gorm:"type:varchar(200);not null"`
	Origins   []string  `json:"origins"    gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// ProjectKey is a client credential embedded in a DSN. The public key is the
// DSN username; it resolves to exactly one Project.
type ProjectKey struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:ux_project_public_key,priority:1"`
	PublicKey string    `json:"public_key" gorm:"type:varchar(32);not null;uniqueIndex:ux_project_public_key,priority:2"`
	SecretKey string    `json:"-"          gorm:"type:varchar(32)"`
	Active    bool      `json:"active"     gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`

	Project Project `json:"project" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ProjectKey.
func (ProjectKey) TableName() string { return "project_keys" }

// Group is a deduplicated cluster of error events sharing a fingerprint.
// Groups are written by the ingestion pipeline; this service only reads them.
type Group struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	ProjectID   uint      `json:"project_id"  gorm:"not null;index"`
	Fingerprint string    `json:"fingerprint" gorm:"type:varchar(64);not null"`
	Message     string    `json:"message"     gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Group.
func (Group) TableName() string { return "groups" }

// EventMapping is the ingestion record that ties an event id to its group
// within a project. An event id is unique per project.
type EventMapping struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:ux_eventmapping_project_event,priority:1"`
	GroupID   uint      `json:"group_id"   gorm:"not null;index"`
	EventID   string    `json:"event_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_eventmapping_project_event,priority:2"`
	CreatedAt time.Time `json:"created_at"`

	Group Group `json:"-" gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for EventMapping.
func (EventMapping) TableName() string { return "event_mappings" }

// UserReportResolution tracks whether the reporter asked to be notified.
type UserReportResolution int

const (
	// ResolutionUnresolved is the default state of a new report.
	ResolutionUnresolved UserReportResolution = 0
	// ResolutionAwaitingResolution marks reports whose author opted into
	// notification when the underlying issue is resolved.
	ResolutionAwaitingResolution UserReportResolution = 1
)

// String returns the stable name of the resolution.
func (r UserReportResolution) String() string {
	switch r {
	case ResolutionAwaitingResolution:
		return "awaiting_resolution"
	default:
		return "unresolved"
	}
}

// UserReport is the feedback record submitted through the embeddable widget.
// A report always belongs to a project and an event id. GroupID is best
// effort: it stays nil when no group was known at submission time and is
// filled in later by the backfiller.
//
// Duplicate reports for the same event are accepted.
type UserReport struct {
	ID         string               `json:"id"          gorm:"type:char(36);primaryKey"`
	ProjectID  uint                 `json:"project_id"  gorm:"not null;index:idx_reports_project_event,priority:1"`
	GroupID    *uint                `json:"group_id"    gorm:"index"`
	EventID    string               `json:"event_id"    gorm:"type:varchar(64);not null;index:idx_reports_project_event,priority:2"`
	Name       string               `json:"name"        gorm:"type:varchar(128);not null"`
	Email      string               `json:"email"       gorm:"type:varchar(75);not null"`
	Comments   string               `json:"comments"    gorm:"type:text;not null"`
	Resolution UserReportResolution `json:"resolution"  gorm:"not null;default:0;check:resolution IN (0,1)"`
	CreatedAt  time.Time            `json:"created_at"  gorm:"index"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Group   *Group  `json:"-" gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for UserReport.
func (UserReport) TableName() string { return "user_reports" }
