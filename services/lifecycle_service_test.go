package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"editorial-api/models"

	"gorm.io/gorm"
)

var (
	manuscriptQueryPattern  = regexp.MustCompile(`(?i)SELECT .* FROM .*manuscripts.*manuscript_id = \?`)
	statesQueryPattern      = regexp.MustCompile(`(?i)SELECT .* FROM .*workflow_states`)
	transitionsQueryPattern = regexp.MustCompile(`(?i)SELECT .* FROM .*workflow_transitions`)
	roundQueryPattern       = regexp.MustCompile(`(?i)SELECT .* FROM .*review_rounds.*review_round_id = \?`)
	userQueryPattern        = regexp.MustCompile(`(?i)SELECT .* FROM .*users.*user_id = \?`)
	maxVersionPattern       = regexp.MustCompile(`(?i)SELECT COALESCE\(MAX\(version_number\), 0\) FROM .*manuscript_versions`)
	maxRoundPattern         = regexp.MustCompile(`(?i)SELECT COALESCE\(MAX\(round_number\), 0\) FROM .*review_rounds`)
	updateManuscriptPattern = regexp.MustCompile(`(?i)UPDATE .*manuscripts.* SET`)
	insertHistoryPattern    = regexp.MustCompile(`(?i)INSERT INTO .*manuscript_status_history`)
	insertVersionPattern    = regexp.MustCompile(`(?i)INSERT INTO .*manuscript_versions`)
	insertRoundPattern      = regexp.MustCompile(`(?i)INSERT INTO .*review_rounds`)
	insertReviewPattern     = regexp.MustCompile(`(?i)INSERT INTO .*reviews`)
	insertDecisionPattern   = regexp.MustCompile(`(?i)INSERT INTO .*decisions`)
	insertManuscriptPattern = regexp.MustCompile(`(?i)INSERT INTO .*manuscripts`)
	insertJournalQuery      = regexp.MustCompile(`(?i)SELECT .* FROM .*journals.*journal_id = \?`)
	insertAssignmentPattern = regexp.MustCompile(`(?i)INSERT INTO .*review_assignments`)
	assignmentQueryPattern  = regexp.MustCompile(`(?i)SELECT .* FROM .*review_assignments`)
	reviewQueryPattern      = regexp.MustCompile(`(?i)SELECT .* FROM .*reviews.*review_round_id = \?`)
)

// workflowSteps are the two queries the graph cache issues on first load:
// a graph with Submitted (initial, id 1) -> UnderReview (2) -> Accepted (3)
// / Rejected (4), final edges gated on make_final_decision.
func workflowSteps() []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: statesQueryPattern,
			columns: []string{"state_id", "name", "is_initial"},
			rows: [][]driver.Value{
				{int64(1), "Submitted", true},
				{int64(2), "UnderReview", false},
				{int64(3), "Accepted", false},
				{int64(4), "Rejected", false},
			},
		},
		{
			kind:    kindQuery,
			pattern: transitionsQueryPattern,
			columns: []string{"transition_id", "from_state_id", "to_state_id", "label", "required_permission"},
			rows: [][]driver.Value{
				{int64(1), int64(1), int64(2), "Send to review", ""},
				{int64(2), int64(2), int64(3), "Accept", PermMakeFinalDecision},
				{int64(3), int64(2), int64(4), "Reject", PermMakeFinalDecision},
			},
		},
	}
}

func manuscriptStep(stateID int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: manuscriptQueryPattern,
		columns: []string{"manuscript_id", "title", "corresponding_author_id", "current_state_id"},
		rows:    [][]driver.Value{{int64(10), "A study", int64(4), stateID}},
	}
}

func newTestLifecycle(t *testing.T, steps []*queryStep) (*LifecycleService, *scriptedDB, func()) {
	t.Helper()
	db, state, cleanup := newScriptedGormDB(t, steps)
	registry := NewPermissionRegistry(db)
	svc := NewLifecycleService(db, NewAuthorizationEngine(registry), NewWorkflowGraphCache(db), nil)
	return svc, state, cleanup
}

func superuser() *models.User {
	return &models.User{UserID: 1, Email: "chief@example.org", IsSuperuser: true}
}

func TestSubmitReviewScoreBoundaries(t *testing.T) {
	// Out-of-range scores fail validation before any query runs.
	svc, state, cleanup := newTestLifecycle(t, nil)
	defer cleanup()

	for _, score := range []int{0, 6, -1, 100} {
		s := score
		_, err := svc.SubmitReview(superuser(), 1, "fine work", &s)
		if !IsValidation(err) {
			t.Fatalf("score %d: expected ValidationError, got %v", score, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("validation must precede queries: %v", err)
	}
}

func TestSubmitReviewAcceptsBoundaryScores(t *testing.T) {
	for _, score := range []int{1, 5} {
		s := score
		steps := []*queryStep{
			{
				kind:    kindQuery,
				pattern: roundQueryPattern,
				columns: []string{"review_round_id", "manuscript_id", "round_number"},
				rows:    [][]driver.Value{{int64(2), int64(10), int64(1)}},
			},
			{
				kind:    kindQuery,
				pattern: reviewQueryPattern,
				columns: []string{"review_id"},
				rows:    [][]driver.Value{},
			},
			{
				kind:    kindExec,
				pattern: insertReviewPattern,
				result:  scriptedResult{lastInsertID: 31, rowsAffected: 1},
			},
		}
		svc, state, cleanup := newTestLifecycle(t, steps)

		review, err := svc.SubmitReview(superuser(), 2, "solid methodology", &s)
		if err != nil {
			t.Fatalf("score %d: unexpected error: %v", score, err)
		}
		if review.Status != models.ReviewStatusSubmitted {
			t.Fatalf("score %d: expected Submitted status, got %q", score, review.Status)
		}
		if review.SubmittedAt == nil {
			t.Fatalf("score %d: submitted_at not stamped", score)
		}
		if review.ManuscriptID != 10 {
			t.Fatalf("score %d: review not linked to round's manuscript", score)
		}

		if err := state.verifyComplete(); err != nil {
			t.Fatalf("score %d: unmet expectations: %v", score, err)
		}
		cleanup()
	}
}

func TestSubmitReviewRequiresComments(t *testing.T) {
	svc, _, cleanup := newTestLifecycle(t, nil)
	defer cleanup()

	_, err := svc.SubmitReview(superuser(), 1, "", nil)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty comments, got %v", err)
	}
}

func TestTransitionRejectsMissingEdge(t *testing.T) {
	steps := append([]*queryStep{manuscriptStep(int64(1))}, workflowSteps()...)
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	// Submitted -> Accepted has no edge; no mutation may run.
	_, err := svc.Transition(superuser(), 10, "Accepted")
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}

	var invalid *InvalidTransitionError
	errors.As(err, &invalid)
	if invalid.From != "Submitted" || invalid.To != "Accepted" {
		t.Fatalf("transition error should carry the attempted pair, got %+v", invalid)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("illegal transition must leave no writes: %v", err)
	}
}

func TestTransitionUnknownStateIsNotFound(t *testing.T) {
	steps := append([]*queryStep{manuscriptStep(int64(1))}, workflowSteps()...)
	svc, _, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	_, err := svc.Transition(superuser(), 10, "Banished")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown state, got %v", err)
	}
}

func TestTransitionUpdatesStateAndAppendsHistory(t *testing.T) {
	steps := append([]*queryStep{manuscriptStep(int64(1))}, workflowSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindExec,
			pattern: updateManuscriptPattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertHistoryPattern,
			result:  scriptedResult{lastInsertID: 77, rowsAffected: 1},
		},
	)
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	history, err := svc.Transition(superuser(), 10, "UnderReview")
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if history.StateID != 2 {
		t.Fatalf("history should record the new state, got %d", history.StateID)
	}
	if history.ChangedBy == nil || *history.ChangedBy != 1 {
		t.Fatalf("history should record the actor")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionSurfacesDuplicateConflictAfterRetry(t *testing.T) {
	// The CAS update affects zero rows twice: someone else keeps winning.
	steps := append([]*queryStep{manuscriptStep(int64(1))}, workflowSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindExec,
			pattern: updateManuscriptPattern,
			result:  scriptedResult{rowsAffected: 0},
		},
		manuscriptStep(int64(1)),
		&queryStep{
			kind:    kindExec,
			pattern: updateManuscriptPattern,
			result:  scriptedResult{rowsAffected: 0},
		},
	)
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	_, err := svc.Transition(superuser(), 10, "UnderReview")
	if !IsDuplicateConflict(err) {
		t.Fatalf("expected DuplicateConflictError, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviseVersionAssignsNextNumber(t *testing.T) {
	steps := []*queryStep{
		manuscriptStep(int64(2)),
		{
			kind:    kindQuery,
			pattern: maxVersionPattern,
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: insertVersionPattern,
			result:  scriptedResult{lastInsertID: 55, rowsAffected: 1},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	version, err := svc.ReviseVersion(superuser(), 10, nil)
	if err != nil {
		t.Fatalf("ReviseVersion returned error: %v", err)
	}
	if version.VersionNumber != 3 {
		t.Fatalf("expected version 3, got %d", version.VersionNumber)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReviseVersionRetriesDuplicateOnce(t *testing.T) {
	steps := []*queryStep{
		manuscriptStep(int64(2)),
		{
			kind:    kindQuery,
			pattern: maxVersionPattern,
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: insertVersionPattern,
			err:     gorm.ErrDuplicatedKey,
		},
		// retry re-reads the counter and succeeds
		{
			kind:    kindQuery,
			pattern: maxVersionPattern,
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(3)}},
		},
		{
			kind:    kindExec,
			pattern: insertVersionPattern,
			result:  scriptedResult{lastInsertID: 56, rowsAffected: 1},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	version, err := svc.ReviseVersion(superuser(), 10, nil)
	if err != nil {
		t.Fatalf("ReviseVersion should succeed after one retry: %v", err)
	}
	if version.VersionNumber != 4 {
		t.Fatalf("retry should claim the next free number, got %d", version.VersionNumber)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenReviewRoundStartsAtOne(t *testing.T) {
	steps := []*queryStep{
		manuscriptStep(int64(2)),
		{
			kind:    kindQuery,
			pattern: maxRoundPattern,
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: insertRoundPattern,
			result:  scriptedResult{lastInsertID: 21, rowsAffected: 1},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	round, err := svc.OpenReviewRound(superuser(), 10)
	if err != nil {
		t.Fatalf("OpenReviewRound returned error: %v", err)
	}
	if round.RoundNumber != 1 {
		t.Fatalf("first round must be numbered 1, got %d", round.RoundNumber)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignReviewerReturnsExistingAssignment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: roundQueryPattern,
			columns: []string{"review_round_id", "manuscript_id", "round_number"},
			rows:    [][]driver.Value{{int64(2), int64(10), int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: userQueryPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(6), "reviewer@example.org"}},
		},
		{
			kind:    kindQuery,
			pattern: assignmentQueryPattern,
			columns: []string{"review_assignment_id", "review_round_id", "reviewer_id", "completed"},
			rows:    [][]driver.Value{{int64(14), int64(2), int64(6), false}},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	// The assignment already exists; no insert may run.
	assignment, err := svc.AssignReviewer(superuser(), 2, 6)
	if err != nil {
		t.Fatalf("AssignReviewer returned error: %v", err)
	}
	if assignment.ReviewAssignmentID != 14 {
		t.Fatalf("expected the existing assignment row, got id %d", assignment.ReviewAssignmentID)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitCreatesManuscriptVersionAndHistory(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: insertJournalQuery,
			columns: []string{"journal_id", "name", "is_active"},
			rows:    [][]driver.Value{{int64(3), "Applied Things", true}},
		},
	}
	steps = append(steps, workflowSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindExec,
			pattern: insertManuscriptPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertVersionPattern,
			result:  scriptedResult{lastInsertID: 61, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertHistoryPattern,
			result:  scriptedResult{lastInsertID: 91, rowsAffected: 1},
		},
	)
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	manuscript, err := svc.Submit(superuser(), SubmitInput{
		JournalID: 3,
		Title:     "On the reproducibility of benchmarks",
		Abstract:  "We rerun everything.",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if manuscript.ManuscriptID != 11 {
		t.Fatalf("expected assigned id 11, got %d", manuscript.ManuscriptID)
	}
	if manuscript.CurrentStateID == nil || *manuscript.CurrentStateID != 1 {
		t.Fatalf("new submission must start in the initial state")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitValidatesInput(t *testing.T) {
	svc, _, cleanup := newTestLifecycle(t, nil)
	defer cleanup()

	if _, err := svc.Submit(superuser(), SubmitInput{JournalID: 1, Abstract: "a"}); !IsValidation(err) {
		t.Fatalf("missing title: expected ValidationError, got %v", err)
	}
	if _, err := svc.Submit(superuser(), SubmitInput{JournalID: 1, Title: "t"}); !IsValidation(err) {
		t.Fatalf("missing abstract: expected ValidationError, got %v", err)
	}
}

func TestSubmitRejectsUnknownJournal(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: insertJournalQuery,
			columns: []string{"journal_id"},
			rows:    [][]driver.Value{},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	_, err := svc.Submit(superuser(), SubmitInput{JournalID: 99, Title: "t", Abstract: "a"})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown journal, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideRecordsDecisionAndTransitions(t *testing.T) {
	steps := append([]*queryStep{manuscriptStep(int64(2))}, workflowSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindExec,
			pattern: insertDecisionPattern,
			result:  scriptedResult{lastInsertID: 41, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: updateManuscriptPattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertHistoryPattern,
			result:  scriptedResult{lastInsertID: 92, rowsAffected: 1},
		},
	)
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	decision, history, err := svc.Decide(superuser(), 10, "Accept", "Accepted")
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Decision != "Accept" {
		t.Fatalf("unexpected decision label %q", decision.Decision)
	}
	if history.StateID != 3 {
		t.Fatalf("history should record Accepted (id 3), got %d", history.StateID)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkAssignmentCompletedIsIdempotent(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentQueryPattern,
			columns: []string{"review_assignment_id", "review_round_id", "reviewer_id", "completed"},
			rows:    [][]driver.Value{{int64(14), int64(2), int64(6), true}},
		},
	}
	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	// Already completed: no update statement may run.
	assignment, err := svc.MarkAssignmentCompleted(superuser(), 14)
	if err != nil {
		t.Fatalf("MarkAssignmentCompleted returned error: %v", err)
	}
	if !assignment.Completed {
		t.Fatalf("assignment should stay completed")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Drives a whole submission through review to acceptance with users that
// hold only the capability each step needs: the author submits, the editor
// moves it to review and runs the round, the reviewer scores it, and the
// editor-in-chief accepts and records the decision. Along the way the author
// is refused the editorial transition.
func TestEditorialWorkflowEndToEnd(t *testing.T) {
	permStep := func(userID int64, codes ...string) *queryStep {
		rows := make([][]driver.Value, len(codes))
		for i, code := range codes {
			rows[i] = []driver.Value{code}
		}
		return &queryStep{
			kind:    kindQuery,
			pattern: permissionJoinPattern,
			args:    []driver.Value{userID},
			columns: []string{"code"},
			rows:    rows,
		}
	}

	// Submit: author's permissions, journal lookup, first graph load, then
	// manuscript + version 1 + history in one transaction.
	steps := []*queryStep{
		permStep(4, PermSubmitManuscript),
		{
			kind:    kindQuery,
			pattern: insertJournalQuery,
			columns: []string{"journal_id", "name", "is_active"},
			rows:    [][]driver.Value{{int64(3), "Applied Things", true}},
		},
	}
	steps = append(steps, workflowSteps()...)
	steps = append(steps,
		&queryStep{kind: kindExec, pattern: insertManuscriptPattern, result: scriptedResult{lastInsertID: 11, rowsAffected: 1}},
		&queryStep{kind: kindExec, pattern: insertVersionPattern, result: scriptedResult{lastInsertID: 61, rowsAffected: 1}},
		&queryStep{kind: kindExec, pattern: insertHistoryPattern, result: scriptedResult{lastInsertID: 91, rowsAffected: 1}},

		// The author's attempt at the editorial transition reads the
		// manuscript, then is refused on the edge capability; no writes.
		manuscriptStep(int64(1)),

		// Editor sends it to review: manuscript, editor's permissions, CAS
		// update plus the second history entry.
		manuscriptStep(int64(1)),
		permStep(5, PermAssignEditors, PermAssignReviewers),
		&queryStep{kind: kindExec, pattern: updateManuscriptPattern, result: scriptedResult{rowsAffected: 1}},
		&queryStep{kind: kindExec, pattern: insertHistoryPattern, result: scriptedResult{lastInsertID: 92, rowsAffected: 1}},

		// Editor opens round 1 (permissions now cached).
		manuscriptStep(int64(2)),
		&queryStep{
			kind:    kindQuery,
			pattern: maxRoundPattern,
			columns: []string{"coalesce"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		&queryStep{kind: kindExec, pattern: insertRoundPattern, result: scriptedResult{lastInsertID: 21, rowsAffected: 1}},

		// Editor invites the reviewer.
		&queryStep{
			kind:    kindQuery,
			pattern: roundQueryPattern,
			columns: []string{"review_round_id", "manuscript_id", "round_number"},
			rows:    [][]driver.Value{{int64(21), int64(11), int64(1)}},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: userQueryPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(6), "reviewer@example.org"}},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: assignmentQueryPattern,
			columns: []string{"review_assignment_id"},
			rows:    [][]driver.Value{},
		},
		&queryStep{kind: kindExec, pattern: insertAssignmentPattern, result: scriptedResult{lastInsertID: 31, rowsAffected: 1}},

		// Reviewer submits a score-4 review.
		permStep(6, PermReviewManuscripts),
		&queryStep{
			kind:    kindQuery,
			pattern: roundQueryPattern,
			columns: []string{"review_round_id", "manuscript_id", "round_number"},
			rows:    [][]driver.Value{{int64(21), int64(11), int64(1)}},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: reviewQueryPattern,
			columns: []string{"review_id"},
			rows:    [][]driver.Value{},
		},
		&queryStep{kind: kindExec, pattern: insertReviewPattern, result: scriptedResult{lastInsertID: 41, rowsAffected: 1}},

		// Editor-in-chief accepts: the edge demands the final-decision
		// capability, then CAS update and the third history entry.
		manuscriptStep(int64(2)),
		permStep(7, PermMakeFinalDecision),
		&queryStep{kind: kindExec, pattern: updateManuscriptPattern, result: scriptedResult{rowsAffected: 1}},
		&queryStep{kind: kindExec, pattern: insertHistoryPattern, result: scriptedResult{lastInsertID: 93, rowsAffected: 1}},

		// And records the decision (permissions cached).
		manuscriptStep(int64(3)),
		&queryStep{kind: kindExec, pattern: insertDecisionPattern, result: scriptedResult{lastInsertID: 51, rowsAffected: 1}},
	)

	svc, state, cleanup := newTestLifecycle(t, steps)
	defer cleanup()

	author := &models.User{UserID: 4, Email: "author@example.org"}
	editor := &models.User{UserID: 5, Email: "editor@example.org"}
	reviewer := &models.User{UserID: 6, Email: "reviewer@example.org"}
	chief := &models.User{UserID: 7, Email: "chief@example.org"}

	manuscript, err := svc.Submit(author, SubmitInput{
		JournalID: 3,
		Title:     "On the reproducibility of benchmarks",
		Abstract:  "We rerun everything.",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if manuscript.CurrentStateID == nil || *manuscript.CurrentStateID != 1 {
		t.Fatalf("submission must start in the initial state")
	}

	if _, err := svc.Transition(author, 11, "UnderReview"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("author must not hold the editorial edge capability, got %v", err)
	}

	underReview, err := svc.Transition(editor, 11, "UnderReview")
	if err != nil {
		t.Fatalf("editor transition: %v", err)
	}
	if underReview.StateID != 2 {
		t.Fatalf("expected UnderReview (2), got %d", underReview.StateID)
	}

	round, err := svc.OpenReviewRound(editor, 11)
	if err != nil {
		t.Fatalf("OpenReviewRound: %v", err)
	}
	if round.RoundNumber != 1 {
		t.Fatalf("expected round 1, got %d", round.RoundNumber)
	}

	if _, err := svc.AssignReviewer(editor, 21, 6); err != nil {
		t.Fatalf("AssignReviewer: %v", err)
	}

	score := 4
	review, err := svc.SubmitReview(reviewer, 21, "methodologically sound", &score)
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.Score == nil || *review.Score != 4 {
		t.Fatalf("review should carry score 4")
	}
	if review.Status != models.ReviewStatusSubmitted {
		t.Fatalf("review should be Submitted, got %q", review.Status)
	}

	accepted, err := svc.Transition(chief, 11, "Accepted")
	if err != nil {
		t.Fatalf("chief transition: %v", err)
	}
	if accepted.StateID != 3 {
		t.Fatalf("expected Accepted (3), got %d", accepted.StateID)
	}

	decision, err := svc.RecordDecision(chief, 11, "Accept")
	if err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if decision.Decision != "Accept" {
		t.Fatalf("unexpected decision label %q", decision.Decision)
	}

	// Three history entries were written: Submitted, UnderReview, Accepted.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordDecisionRequiresLabel(t *testing.T) {
	svc, _, cleanup := newTestLifecycle(t, nil)
	defer cleanup()

	_, err := svc.RecordDecision(superuser(), 10, "")
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty decision, got %v", err)
	}
}
