package services

import (
	"errors"
	"fmt"
	"time"

	"editorial-api/models"

	"gorm.io/gorm"
)

// LifecycleService coordinates the manuscript editorial workflow. It is the
// only component that mutates Manuscript.current_state, appends status
// history, or advances version and round counters. Every public operation
// runs as one unit: authorization check, domain validation, mutation inside
// a transaction, history append.
//
// Serializability per manuscript comes from the in-process keyed lock plus
// the unique indexes on (manuscript, version_number) and (manuscript,
// round_number) as a cross-process backstop; a duplicate-key race is retried
// once before surfacing as DuplicateConflictError.
type LifecycleService struct {
	db       *gorm.DB
	auth     *AuthorizationEngine
	graphs   *WorkflowGraphCache
	notifier Notifier
	locks    *manuscriptLocks
}

func NewLifecycleService(db *gorm.DB, auth *AuthorizationEngine, graphs *WorkflowGraphCache, notifier Notifier) *LifecycleService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LifecycleService{
		db:       db,
		auth:     auth,
		graphs:   graphs,
		notifier: notifier,
		locks:    newManuscriptLocks(),
	}
}

// SubmitInput carries the author-provided fields of a new submission. The
// file reference is an opaque handle from the storage collaborator.
type SubmitInput struct {
	JournalID     int
	SectionID     *int
	Title         string
	Abstract      string
	FileReference *string
}

// Submit intakes a new manuscript: the row itself, version 1, the initial
// workflow state and the first history entry, all in one transaction.
func (s *LifecycleService) Submit(user *models.User, input SubmitInput) (*models.Manuscript, error) {
	if err := s.auth.AuthorizeOperation(user, OpSubmitManuscript); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if input.Abstract == "" {
		return nil, &ValidationError{Field: "abstract", Reason: "abstract is required"}
	}

	var journal models.Journal
	if err := s.db.Where("journal_id = ? AND is_active = ?", input.JournalID, true).
		First(&journal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "journal_id", Reason: "journal does not exist or is inactive"}
		}
		return nil, fmt.Errorf("failed to load journal %d: %w", input.JournalID, err)
	}
	if input.SectionID != nil {
		var section models.Section
		if err := s.db.Where("section_id = ? AND journal_id = ?", *input.SectionID, input.JournalID).
			First(&section).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Field: "section_id", Reason: "section does not belong to the journal"}
			}
			return nil, fmt.Errorf("failed to load section %d: %w", *input.SectionID, err)
		}
	}

	graph, err := s.graphs.Get()
	if err != nil {
		return nil, err
	}
	initial := graph.InitialStates()
	if len(initial) == 0 {
		return nil, fmt.Errorf("workflow has no initial state configured")
	}
	initialState := initial[0]

	now := time.Now()
	manuscript := models.Manuscript{
		JournalID:             input.JournalID,
		SectionID:             input.SectionID,
		Title:                 input.Title,
		Abstract:              input.Abstract,
		CorrespondingAuthorID: user.UserID,
		CurrentStateID:        &initialState.StateID,
		SubmittedAt:           &now,
		CreateAt:              &now,
		UpdateAt:              &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&manuscript).Error; err != nil {
			return fmt.Errorf("failed to create manuscript: %w", err)
		}
		version := models.ManuscriptVersion{
			ManuscriptID:  manuscript.ManuscriptID,
			VersionNumber: 1,
			FileReference: input.FileReference,
			CreatedBy:     user.UserID,
			CreatedAt:     now,
		}
		if err := tx.Create(&version).Error; err != nil {
			return fmt.Errorf("failed to create first version: %w", err)
		}
		changedBy := user.UserID
		history := models.ManuscriptStatusHistory{
			ManuscriptID: manuscript.ManuscriptID,
			StateID:      initialState.StateID,
			ChangedBy:    &changedBy,
			ChangedAt:    now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ManuscriptTransitioned(&manuscript, &initialState, user)
	return &manuscript, nil
}

// ReviseVersion records a new manuscript version numbered max(existing)+1.
// It does not move the workflow state; callers pair it with Transition when
// a revision should also advance the workflow.
func (s *LifecycleService) ReviseVersion(user *models.User, manuscriptID int, fileReference *string) (*models.ManuscriptVersion, error) {
	if err := s.auth.AuthorizeOperation(user, OpReviseVersion); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(manuscriptID)
	defer unlock()

	if _, err := s.loadManuscript(manuscriptID); err != nil {
		return nil, err
	}

	var version models.ManuscriptVersion
	err := s.withDuplicateRetry("manuscript version", func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var maxNumber int
			if err := tx.Model(&models.ManuscriptVersion{}).
				Where("manuscript_id = ?", manuscriptID).
				Select("COALESCE(MAX(version_number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return fmt.Errorf("failed to resolve current version number: %w", err)
			}
			version = models.ManuscriptVersion{
				ManuscriptID:  manuscriptID,
				VersionNumber: maxNumber + 1,
				FileReference: fileReference,
				CreatedBy:     user.UserID,
				CreatedAt:     time.Now(),
			}
			return tx.Create(&version).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// Transition moves a manuscript along a workflow edge. The capability is
// resolved per edge, the move is validated against the graph, and the state
// update plus history append commit atomically. The state column update is a
// compare-and-swap on the expected current state so a concurrent writer
// cannot be silently overwritten.
func (s *LifecycleService) Transition(user *models.User, manuscriptID int, toStateName string) (*models.ManuscriptStatusHistory, error) {
	unlock := s.locks.Lock(manuscriptID)
	defer unlock()

	var history *models.ManuscriptStatusHistory
	err := s.withDuplicateRetry("manuscript state", func() error {
		h, err := s.transitionLocked(user, manuscriptID, toStateName)
		if err != nil {
			return err
		}
		history = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *LifecycleService) transitionLocked(user *models.User, manuscriptID int, toStateName string) (*models.ManuscriptStatusHistory, error) {
	manuscript, err := s.loadManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	graph, err := s.graphs.Get()
	if err != nil {
		return nil, err
	}
	toState, ok := graph.StateByName(toStateName)
	if !ok {
		return nil, fmt.Errorf("workflow state %q: %w", toStateName, ErrNotFound)
	}

	// Authorization precedes any mutation; the capability depends on the
	// edge being taken.
	if err := s.auth.Authorize(user, graph.RequiredPermission(manuscript.CurrentStateID, toState.StateID)); err != nil {
		return nil, err
	}

	if !graph.CanTransition(manuscript.CurrentStateID, toState.StateID) {
		fromName := ""
		if manuscript.CurrentStateID != nil {
			if from, ok := graph.StateByID(*manuscript.CurrentStateID); ok {
				fromName = from.Name
			}
		}
		return nil, &InvalidTransitionError{From: fromName, To: toStateName}
	}

	now := time.Now()
	changedBy := user.UserID
	history := models.ManuscriptStatusHistory{
		ManuscriptID: manuscriptID,
		StateID:      toState.StateID,
		ChangedBy:    &changedBy,
		ChangedAt:    now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.swapState(tx, manuscript, toState.StateID, now); err != nil {
			return err
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	manuscript.CurrentStateID = &toState.StateID
	s.notifier.ManuscriptTransitioned(manuscript, &toState, user)
	return &history, nil
}

// swapState performs the compare-and-swap update of current_state_id. Zero
// rows affected means another writer moved the manuscript first; that is
// surfaced as a duplicate conflict so the outer retry re-reads and
// re-validates.
func (s *LifecycleService) swapState(tx *gorm.DB, manuscript *models.Manuscript, toStateID int, now time.Time) error {
	q := tx.Model(&models.Manuscript{}).Where("manuscript_id = ?", manuscript.ManuscriptID)
	if manuscript.CurrentStateID == nil {
		q = q.Where("current_state_id IS NULL")
	} else {
		q = q.Where("current_state_id = ?", *manuscript.CurrentStateID)
	}
	res := q.Updates(map[string]interface{}{
		"current_state_id": toStateID,
		"update_at":        now,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update manuscript state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	return nil
}

// OpenReviewRound starts the next numbered review round for a manuscript.
func (s *LifecycleService) OpenReviewRound(user *models.User, manuscriptID int) (*models.ReviewRound, error) {
	if err := s.auth.AuthorizeOperation(user, OpOpenReviewRound); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(manuscriptID)
	defer unlock()

	if _, err := s.loadManuscript(manuscriptID); err != nil {
		return nil, err
	}

	var round models.ReviewRound
	err := s.withDuplicateRetry("review round", func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var maxNumber int
			if err := tx.Model(&models.ReviewRound{}).
				Where("manuscript_id = ?", manuscriptID).
				Select("COALESCE(MAX(round_number), 0)").
				Scan(&maxNumber).Error; err != nil {
				return fmt.Errorf("failed to resolve current round number: %w", err)
			}
			round = models.ReviewRound{
				ManuscriptID: manuscriptID,
				RoundNumber:  maxNumber + 1,
				StartedAt:    time.Now(),
			}
			return tx.Create(&round).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// AssignReviewer invites a reviewer to a round. Assigning the same reviewer
// twice returns the existing assignment instead of creating a duplicate.
func (s *LifecycleService) AssignReviewer(user *models.User, roundID, reviewerID int) (*models.ReviewAssignment, error) {
	if err := s.auth.AuthorizeOperation(user, OpAssignReviewer); err != nil {
		return nil, err
	}

	var round models.ReviewRound
	if err := s.db.Where("review_round_id = ?", roundID).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review round %d: %w", roundID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load review round %d: %w", roundID, err)
	}
	var reviewer models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reviewer %d: %w", reviewerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load reviewer %d: %w", reviewerID, err)
	}

	assignment := models.ReviewAssignment{ReviewRoundID: roundID, ReviewerID: reviewerID}
	err := s.db.Where("review_round_id = ? AND reviewer_id = ?", roundID, reviewerID).
		Attrs(models.ReviewAssignment{AssignedAt: time.Now()}).
		FirstOrCreate(&assignment).Error
	if err != nil {
		// A concurrent duplicate call hit the unique index first; the row
		// it created is the one to return.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("review_round_id = ? AND reviewer_id = ?", roundID, reviewerID).
				First(&assignment).Error; err != nil {
				return nil, fmt.Errorf("failed to load existing assignment: %w", err)
			}
			return &assignment, nil
		}
		return nil, fmt.Errorf("failed to assign reviewer: %w", err)
	}
	return &assignment, nil
}

// SubmitReview records the reviewer's comments and optional score for a
// round. The score must be between 1 and 5 inclusive when present.
func (s *LifecycleService) SubmitReview(user *models.User, roundID int, comments string, score *int) (*models.Review, error) {
	if err := s.auth.AuthorizeOperation(user, OpSubmitReview); err != nil {
		return nil, err
	}

	if score != nil && (*score < 1 || *score > 5) {
		return nil, &ValidationError{Field: "score", Reason: "score must be between 1 and 5"}
	}
	if comments == "" {
		return nil, &ValidationError{Field: "comments", Reason: "comments are required"}
	}

	var round models.ReviewRound
	if err := s.db.Where("review_round_id = ?", roundID).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review round %d: %w", roundID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load review round %d: %w", roundID, err)
	}

	now := time.Now()
	var review models.Review
	err := s.withDuplicateRetry("review", func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("review_round_id = ? AND reviewer_id = ?", roundID, user.UserID).
				First(&review).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load review: %w", err)
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				review = models.Review{
					ManuscriptID:  round.ManuscriptID,
					ReviewRoundID: roundID,
					ReviewerID:    user.UserID,
					Comments:      comments,
					Score:         score,
					Status:        models.ReviewStatusSubmitted,
					SubmittedAt:   &now,
				}
				return tx.Create(&review).Error
			}
			review.Comments = comments
			review.Score = score
			review.Status = models.ReviewStatusSubmitted
			review.SubmittedAt = &now
			return tx.Save(&review).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// MarkAssignmentCompleted flags a review assignment as finished. Marking an
// already completed assignment is a no-op. The assignment's own reviewer may
// complete it; anyone else needs the reviewer-management capability.
func (s *LifecycleService) MarkAssignmentCompleted(user *models.User, assignmentID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	if err := s.db.Where("review_assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review assignment %d: %w", assignmentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}

	if user != nil && user.UserID == assignment.ReviewerID {
		if err := s.auth.AuthorizeOperation(user, OpSubmitReview); err != nil {
			return nil, err
		}
	} else {
		if err := s.auth.AuthorizeOperation(user, OpAssignReviewer); err != nil {
			return nil, err
		}
	}

	if assignment.Completed {
		return &assignment, nil
	}
	if err := s.db.Model(&models.ReviewAssignment{}).
		Where("review_assignment_id = ?", assignmentID).
		Update("completed", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark assignment completed: %w", err)
	}
	assignment.Completed = true
	return &assignment, nil
}

// RecordDecision appends a decision row. It does not move the workflow
// state; use Decide when the decision should also transition the
// manuscript.
func (s *LifecycleService) RecordDecision(user *models.User, manuscriptID int, decisionLabel string) (*models.Decision, error) {
	if err := s.auth.AuthorizeOperation(user, OpRecordDecision); err != nil {
		return nil, err
	}
	if decisionLabel == "" {
		return nil, &ValidationError{Field: "decision", Reason: "decision label is required"}
	}

	manuscript, err := s.loadManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}

	decision := models.Decision{
		ManuscriptID: manuscriptID,
		Decision:     decisionLabel,
		DecidedBy:    user.UserID,
		DecidedAt:    time.Now(),
	}
	if err := s.db.Create(&decision).Error; err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}

	s.notifier.DecisionRecorded(manuscript, &decision, user)
	return &decision, nil
}

// Decide records a decision and takes the matching workflow transition as a
// single logical operation: both rows commit in one transaction or neither
// does.
func (s *LifecycleService) Decide(user *models.User, manuscriptID int, decisionLabel, toStateName string) (*models.Decision, *models.ManuscriptStatusHistory, error) {
	if err := s.auth.AuthorizeOperation(user, OpRecordDecision); err != nil {
		return nil, nil, err
	}
	if decisionLabel == "" {
		return nil, nil, &ValidationError{Field: "decision", Reason: "decision label is required"}
	}

	unlock := s.locks.Lock(manuscriptID)
	defer unlock()

	var (
		decision models.Decision
		history  models.ManuscriptStatusHistory
		toState  models.WorkflowState
		target   *models.Manuscript
	)
	err := s.withDuplicateRetry("manuscript state", func() error {
		manuscript, err := s.loadManuscript(manuscriptID)
		if err != nil {
			return err
		}
		graph, err := s.graphs.Get()
		if err != nil {
			return err
		}
		state, ok := graph.StateByName(toStateName)
		if !ok {
			return fmt.Errorf("workflow state %q: %w", toStateName, ErrNotFound)
		}
		if err := s.auth.Authorize(user, graph.RequiredPermission(manuscript.CurrentStateID, state.StateID)); err != nil {
			return err
		}
		if !graph.CanTransition(manuscript.CurrentStateID, state.StateID) {
			fromName := ""
			if manuscript.CurrentStateID != nil {
				if from, ok := graph.StateByID(*manuscript.CurrentStateID); ok {
					fromName = from.Name
				}
			}
			return &InvalidTransitionError{From: fromName, To: toStateName}
		}

		now := time.Now()
		changedBy := user.UserID
		decision = models.Decision{
			ManuscriptID: manuscriptID,
			Decision:     decisionLabel,
			DecidedBy:    user.UserID,
			DecidedAt:    now,
		}
		history = models.ManuscriptStatusHistory{
			ManuscriptID: manuscriptID,
			StateID:      state.StateID,
			ChangedBy:    &changedBy,
			ChangedAt:    now,
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&decision).Error; err != nil {
				return fmt.Errorf("failed to record decision: %w", err)
			}
			if err := s.swapState(tx, manuscript, state.StateID, now); err != nil {
				return err
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to append status history: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		manuscript.CurrentStateID = &state.StateID
		toState = state
		target = manuscript
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifier.DecisionRecorded(target, &decision, user)
	s.notifier.ManuscriptTransitioned(target, &toState, user)
	return &decision, &history, nil
}

// AssignEditor attaches an editor to a manuscript in a named editorial role,
// idempotently per (manuscript, editor, role).
func (s *LifecycleService) AssignEditor(user *models.User, manuscriptID, editorID int, editorRole string) (*models.EditorAssignment, error) {
	if err := s.auth.AuthorizeOperation(user, OpAssignEditor); err != nil {
		return nil, err
	}
	if editorRole == "" {
		return nil, &ValidationError{Field: "editor_role", Reason: "editor role is required"}
	}
	if _, err := s.loadManuscript(manuscriptID); err != nil {
		return nil, err
	}
	var editor models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", editorID).First(&editor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("editor %d: %w", editorID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load editor %d: %w", editorID, err)
	}

	assignment := models.EditorAssignment{
		ManuscriptID: manuscriptID,
		EditorID:     editorID,
		EditorRole:   editorRole,
	}
	err := s.db.Where("manuscript_id = ? AND editor_id = ? AND editor_role = ?", manuscriptID, editorID, editorRole).
		Attrs(models.EditorAssignment{AssignedAt: time.Now()}).
		FirstOrCreate(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("manuscript_id = ? AND editor_id = ? AND editor_role = ?", manuscriptID, editorID, editorRole).
				First(&assignment).Error; err != nil {
				return nil, fmt.Errorf("failed to load existing editor assignment: %w", err)
			}
			return &assignment, nil
		}
		return nil, fmt.Errorf("failed to assign editor: %w", err)
	}
	return &assignment, nil
}

// AttachReviewFile records an opaque storage reference for a file attached
// to a review.
func (s *LifecycleService) AttachReviewFile(user *models.User, reviewID int, originalName, fileReference string) (*models.ReviewFile, error) {
	if err := s.auth.AuthorizeOperation(user, OpAttachReviewFiles); err != nil {
		return nil, err
	}
	if fileReference == "" {
		return nil, &ValidationError{Field: "file_reference", Reason: "file reference is required"}
	}

	var review models.Review
	if err := s.db.Where("review_id = ?", reviewID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load review %d: %w", reviewID, err)
	}

	file := models.ReviewFile{
		ReviewID:      reviewID,
		OriginalName:  originalName,
		FileReference: fileReference,
		UploadedBy:    user.UserID,
		UploadedAt:    time.Now(),
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, fmt.Errorf("failed to attach review file: %w", err)
	}
	return &file, nil
}

// LegalNextStates enumerates the states the manuscript may move to,
// annotated for the asking user by the per-edge capability. Used by the
// boundary to show available actions.
func (s *LifecycleService) LegalNextStates(user *models.User, manuscriptID int) ([]models.WorkflowState, error) {
	if err := s.auth.AuthorizeOperation(user, OpViewSubmissions); err != nil {
		return nil, err
	}
	manuscript, err := s.loadManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	graph, err := s.graphs.Get()
	if err != nil {
		return nil, err
	}
	return graph.LegalNextStates(manuscript.CurrentStateID), nil
}

func (s *LifecycleService) loadManuscript(manuscriptID int) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	if err := s.db.Where("manuscript_id = ?", manuscriptID).First(&manuscript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("manuscript %d: %w", manuscriptID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load manuscript %d: %w", manuscriptID, err)
	}
	return &manuscript, nil
}

// withDuplicateRetry runs fn, retrying once when the failure is a
// duplicate-key race on one of the uniqueness backstops. A second collision
// is surfaced as DuplicateConflictError.
func (s *LifecycleService) withDuplicateRetry(entity string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	err = fn()
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateConflictError{Entity: entity}
	}
	return err
}
