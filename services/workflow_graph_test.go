package services

import (
	"testing"

	"editorial-api/models"
)

func buildTestGraph() *WorkflowGraph {
	states := []models.WorkflowState{
		{StateID: 1, Name: "Submitted", IsInitial: true},
		{StateID: 2, Name: "UnderReview"},
		{StateID: 3, Name: "Accepted"},
		{StateID: 4, Name: "Rejected"},
	}
	transitions := []models.WorkflowTransition{
		{TransitionID: 1, FromStateID: 1, ToStateID: 2, Label: "Send to review"},
		{TransitionID: 2, FromStateID: 2, ToStateID: 3, Label: "Accept", RequiredPermission: PermMakeFinalDecision},
		{TransitionID: 3, FromStateID: 2, ToStateID: 4, Label: "Reject", RequiredPermission: PermMakeFinalDecision},
	}
	return NewWorkflowGraph(states, transitions)
}

func TestCanTransitionFollowsEdges(t *testing.T) {
	g := buildTestGraph()

	if !g.CanTransition(intPtr(1), 2) {
		t.Fatalf("Submitted -> UnderReview should be legal")
	}
	if !g.CanTransition(intPtr(2), 3) {
		t.Fatalf("UnderReview -> Accepted should be legal")
	}
	// No edge skips review
	if g.CanTransition(intPtr(1), 3) {
		t.Fatalf("Submitted -> Accepted has no edge and must be illegal")
	}
	// Reverse direction of an edge is not an edge
	if g.CanTransition(intPtr(2), 1) {
		t.Fatalf("UnderReview -> Submitted must be illegal")
	}
}

func TestCanTransitionFromNilRequiresInitialState(t *testing.T) {
	g := buildTestGraph()

	if !g.CanTransition(nil, 1) {
		t.Fatalf("nil -> Submitted should be legal, Submitted is initial")
	}
	if g.CanTransition(nil, 2) {
		t.Fatalf("nil -> UnderReview must be illegal, UnderReview is not initial")
	}
}

func TestLegalNextStates(t *testing.T) {
	g := buildTestGraph()

	next := g.LegalNextStates(intPtr(2))
	if len(next) != 2 {
		t.Fatalf("expected 2 next states from UnderReview, got %d", len(next))
	}
	if next[0].Name != "Accepted" || next[1].Name != "Rejected" {
		t.Fatalf("unexpected next states: %v, %v", next[0].Name, next[1].Name)
	}

	initial := g.LegalNextStates(nil)
	if len(initial) != 1 || initial[0].Name != "Submitted" {
		t.Fatalf("expected only Submitted as initial state, got %v", initial)
	}
}

func TestTerminalityIsEmergentFromEdgeSet(t *testing.T) {
	g := buildTestGraph()

	if g.IsTerminal(1) || g.IsTerminal(2) {
		t.Fatalf("states with outgoing edges must not be terminal")
	}
	if !g.IsTerminal(3) || !g.IsTerminal(4) {
		t.Fatalf("Accepted and Rejected have no outgoing edges and must be terminal")
	}

	if states := g.LegalNextStates(intPtr(3)); len(states) != 0 {
		t.Fatalf("terminal state should enumerate no next states, got %v", states)
	}
}

func TestRequiredPermissionPerEdge(t *testing.T) {
	g := buildTestGraph()

	if got := g.RequiredPermission(intPtr(1), 2); got != DefaultTransitionPermission {
		t.Fatalf("edge without explicit permission should use default, got %q", got)
	}
	if got := g.RequiredPermission(intPtr(2), 3); got != PermMakeFinalDecision {
		t.Fatalf("accept edge should require make_final_decision, got %q", got)
	}
	if got := g.RequiredPermission(nil, 1); got != DefaultTransitionPermission {
		t.Fatalf("initial placement should use default, got %q", got)
	}
}

func TestGraphIgnoresEdgesWithUnknownStates(t *testing.T) {
	states := []models.WorkflowState{{StateID: 1, Name: "Submitted", IsInitial: true}}
	transitions := []models.WorkflowTransition{
		{TransitionID: 1, FromStateID: 1, ToStateID: 99},
		{TransitionID: 2, FromStateID: 99, ToStateID: 1},
	}
	g := NewWorkflowGraph(states, transitions)

	if g.CanTransition(intPtr(1), 99) {
		t.Fatalf("edge to unknown state must not be legal")
	}
	if !g.IsTerminal(1) {
		t.Fatalf("dangling edges should be dropped, leaving Submitted terminal")
	}
}

func TestStateLookups(t *testing.T) {
	g := buildTestGraph()

	s, ok := g.StateByName("UnderReview")
	if !ok || s.StateID != 2 {
		t.Fatalf("StateByName failed: %v %v", s, ok)
	}
	if _, ok := g.StateByName("Nope"); ok {
		t.Fatalf("unknown state name should not resolve")
	}
	s, ok = g.StateByID(4)
	if !ok || s.Name != "Rejected" {
		t.Fatalf("StateByID failed: %v %v", s, ok)
	}
}

func intPtr(v int) *int { return &v }
