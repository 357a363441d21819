package models

import "time"

// Review status values. A review starts Pending when the reviewer is invited
// and becomes Submitted once scored comments arrive; Completed marks reviews
// the editor has finished processing.
const (
	ReviewStatusPending   = "Pending"
	ReviewStatusSubmitted = "Submitted"
	ReviewStatusCompleted = "Completed"
)

// ReviewRound is one numbered cycle of peer review for a manuscript. Round
// numbers are assigned by the lifecycle service and are unique per
// manuscript.
type ReviewRound struct {
	ReviewRoundID int       `gorm:"primaryKey;column:review_round_id" json:"review_round_id"`
	ManuscriptID  int       `gorm:"column:manuscript_id;uniqueIndex:idx_manuscript_round" json:"manuscript_id"`
	RoundNumber   int       `gorm:"column:round_number;uniqueIndex:idx_manuscript_round" json:"round_number"`
	StartedAt     time.Time `gorm:"column:started_at" json:"started_at"`

	Assignments []ReviewAssignment `gorm:"foreignKey:ReviewRoundID" json:"assignments,omitempty"`
	Reviews     []Review           `gorm:"foreignKey:ReviewRoundID" json:"reviews,omitempty"`
}

// ReviewAssignment tracks which reviewer is invited to a round and whether
// they finished. At most one assignment exists per (round, reviewer).
type ReviewAssignment struct {
	ReviewAssignmentID int       `gorm:"primaryKey;column:review_assignment_id" json:"review_assignment_id"`
	ReviewRoundID      int       `gorm:"column:review_round_id;uniqueIndex:idx_round_reviewer" json:"review_round_id"`
	ReviewerID         int       `gorm:"column:reviewer_id;uniqueIndex:idx_round_reviewer" json:"reviewer_id"`
	AssignedAt         time.Time `gorm:"column:assigned_at" json:"assigned_at"`
	Completed          bool      `gorm:"column:completed" json:"completed"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Review is the authoritative review-submission record: the reviewer's
// comments and optional 1-5 score for one round. One review per reviewer
// per round.
type Review struct {
	ReviewID      int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	ManuscriptID  int        `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewRoundID int        `gorm:"column:review_round_id;uniqueIndex:idx_round_review" json:"review_round_id"`
	ReviewerID    int        `gorm:"column:reviewer_id;uniqueIndex:idx_round_review" json:"reviewer_id"`
	Comments      string     `gorm:"column:comments" json:"comments"`
	Score         *int       `gorm:"column:score" json:"score,omitempty"`
	Status        string     `gorm:"column:status" json:"status"`
	SubmittedAt   *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// ReviewFile records an opaque reference to a file attached to a review; the
// bytes live with the storage collaborator.
type ReviewFile struct {
	ReviewFileID  int       `gorm:"primaryKey;column:review_file_id" json:"review_file_id"`
	ReviewID      int       `gorm:"column:review_id" json:"review_id"`
	OriginalName  string    `gorm:"column:original_name" json:"original_name"`
	FileReference string    `gorm:"column:file_reference" json:"file_reference"`
	UploadedBy    int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// IsSubmitted reports whether the review carries submitted content.
func (r *Review) IsSubmitted() bool {
	return r.Status == ReviewStatusSubmitted || r.Status == ReviewStatusCompleted
}

// TableName overrides
func (ReviewRound) TableName() string {
	return "review_rounds"
}

func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

func (Review) TableName() string {
	return "reviews"
}

func (ReviewFile) TableName() string {
	return "review_files"
}
