package models

import "time"

type Manuscript struct {
	ManuscriptID          int        `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	JournalID             int        `gorm:"column:journal_id" json:"journal_id"`
	SectionID             *int       `gorm:"column:section_id" json:"section_id,omitempty"`
	Title                 string     `gorm:"column:title" json:"title"`
	Abstract              string     `gorm:"column:abstract" json:"abstract"`
	CorrespondingAuthorID int        `gorm:"column:corresponding_author_id" json:"corresponding_author_id"`
	CurrentStateID        *int       `gorm:"column:current_state_id" json:"current_state_id,omitempty"`
	SubmittedAt           *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt              *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt              *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Journal             *Journal                  `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
	Section             *Section                  `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	CorrespondingAuthor *User                     `gorm:"foreignKey:CorrespondingAuthorID" json:"corresponding_author,omitempty"`
	CurrentState        *WorkflowState            `gorm:"foreignKey:CurrentStateID" json:"current_state,omitempty"`
	Versions            []ManuscriptVersion       `gorm:"foreignKey:ManuscriptID" json:"versions,omitempty"`
	StatusHistory       []ManuscriptStatusHistory `gorm:"foreignKey:ManuscriptID" json:"status_history,omitempty"`
	Decisions           []Decision                `gorm:"foreignKey:ManuscriptID" json:"decisions,omitempty"`
}

// ManuscriptVersion numbers are assigned by the lifecycle service as
// max(existing)+1 per manuscript; the composite unique index is the backstop
// against two concurrent revisions claiming the same number.
type ManuscriptVersion struct {
	VersionID     int       `gorm:"primaryKey;column:version_id" json:"version_id"`
	ManuscriptID  int       `gorm:"column:manuscript_id;uniqueIndex:idx_manuscript_version" json:"manuscript_id"`
	VersionNumber int       `gorm:"column:version_number;uniqueIndex:idx_manuscript_version" json:"version_number"`
	FileReference *string   `gorm:"column:file_reference" json:"file_reference,omitempty"`
	CreatedBy     int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

// ManuscriptStatusHistory is the append-only audit trail of state changes.
// Rows are never updated or deleted.
type ManuscriptStatusHistory struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ManuscriptID int       `gorm:"column:manuscript_id" json:"manuscript_id"`
	StateID      int       `gorm:"column:state_id" json:"state_id"`
	ChangedBy    *int      `gorm:"column:changed_by" json:"changed_by"`
	ChangedAt    time.Time `gorm:"column:changed_at" json:"changed_at"`

	State *WorkflowState `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

type EditorAssignment struct {
	EditorAssignmentID int       `gorm:"primaryKey;column:editor_assignment_id" json:"editor_assignment_id"`
	ManuscriptID       int       `gorm:"column:manuscript_id;uniqueIndex:idx_manuscript_editor" json:"manuscript_id"`
	EditorID           int       `gorm:"column:editor_id;uniqueIndex:idx_manuscript_editor" json:"editor_id"`
	EditorRole         string    `gorm:"column:editor_role;uniqueIndex:idx_manuscript_editor" json:"editor_role"` // Section Editor, Editor-in-Chief
	AssignedAt         time.Time `gorm:"column:assigned_at" json:"assigned_at"`

	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

// Decision rows accumulate across review rounds; the most recent by
// decided_at is the authoritative one for display.
type Decision struct {
	DecisionID   int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ManuscriptID int       `gorm:"column:manuscript_id" json:"manuscript_id"`
	Decision     string    `gorm:"column:decision" json:"decision"` // Accept, Reject, Revise
	DecidedBy    int       `gorm:"column:decided_by" json:"decided_by"`
	DecidedAt    time.Time `gorm:"column:decided_at" json:"decided_at"`

	Decider *User `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
}

// TableName overrides
func (Manuscript) TableName() string {
	return "manuscripts"
}

func (ManuscriptVersion) TableName() string {
	return "manuscript_versions"
}

func (ManuscriptStatusHistory) TableName() string {
	return "manuscript_status_history"
}

func (EditorAssignment) TableName() string {
	return "editor_assignments"
}

func (Decision) TableName() string {
	return "decisions"
}
