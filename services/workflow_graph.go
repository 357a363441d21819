package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"editorial-api/models"

	"gorm.io/gorm"
)

// WorkflowGraph is an immutable view of the workflow states and transitions.
// It only answers legality questions; applying a transition is the lifecycle
// service's job. Terminality is emergent: a state with no outgoing edges is
// terminal, nothing in the graph hard-codes which states are final.
type WorkflowGraph struct {
	statesByID   map[int]models.WorkflowState
	statesByName map[string]models.WorkflowState
	edges        map[int]map[int]models.WorkflowTransition
	initialIDs   map[int]struct{}
}

// NewWorkflowGraph builds a graph from the full state and transition sets.
// The graph is never mutated afterwards; admin edits rebuild it wholesale
// through the cache.
func NewWorkflowGraph(states []models.WorkflowState, transitions []models.WorkflowTransition) *WorkflowGraph {
	g := &WorkflowGraph{
		statesByID:   make(map[int]models.WorkflowState, len(states)),
		statesByName: make(map[string]models.WorkflowState, len(states)),
		edges:        make(map[int]map[int]models.WorkflowTransition),
		initialIDs:   make(map[int]struct{}),
	}
	for _, s := range states {
		g.statesByID[s.StateID] = s
		g.statesByName[s.Name] = s
		if s.IsInitial {
			g.initialIDs[s.StateID] = struct{}{}
		}
	}
	for _, t := range transitions {
		if _, ok := g.statesByID[t.FromStateID]; !ok {
			continue
		}
		if _, ok := g.statesByID[t.ToStateID]; !ok {
			continue
		}
		out, ok := g.edges[t.FromStateID]
		if !ok {
			out = make(map[int]models.WorkflowTransition)
			g.edges[t.FromStateID] = out
		}
		out[t.ToStateID] = t
	}
	return g
}

// StateByName looks a state up by its unique name.
func (g *WorkflowGraph) StateByName(name string) (models.WorkflowState, bool) {
	s, ok := g.statesByName[name]
	return s, ok
}

// StateByID looks a state up by id.
func (g *WorkflowGraph) StateByID(id int) (models.WorkflowState, bool) {
	s, ok := g.statesByID[id]
	return s, ok
}

// InitialStates returns the states a manuscript may start in.
func (g *WorkflowGraph) InitialStates() []models.WorkflowState {
	out := make([]models.WorkflowState, 0, len(g.initialIDs))
	for id := range g.initialIDs {
		out = append(out, g.statesByID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LegalNextStates enumerates the states reachable from the given state. A
// nil from means the manuscript has no state yet, so the initial states are
// the legal targets.
func (g *WorkflowGraph) LegalNextStates(fromID *int) []models.WorkflowState {
	if fromID == nil {
		return g.InitialStates()
	}
	out := make([]models.WorkflowState, 0, len(g.edges[*fromID]))
	for toID := range g.edges[*fromID] {
		out = append(out, g.statesByID[toID])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CanTransition reports whether the ordered (from, to) move is legal. A nil
// from is legal exactly when to is a designated initial state.
func (g *WorkflowGraph) CanTransition(fromID *int, toID int) bool {
	if fromID == nil {
		_, ok := g.initialIDs[toID]
		return ok
	}
	_, ok := g.edges[*fromID][toID]
	return ok
}

// IsTerminal reports whether the state has no outgoing edges.
func (g *WorkflowGraph) IsTerminal(stateID int) bool {
	return len(g.edges[stateID]) == 0
}

// RequiredPermission resolves the capability gating the (from, to) edge.
// Edges without an explicit required_permission fall back to the default
// editorial capability; entering an initial state is gated by the submit
// operation, not by an edge, so the default applies there too.
func (g *WorkflowGraph) RequiredPermission(fromID *int, toID int) string {
	if fromID == nil {
		return DefaultTransitionPermission
	}
	if t, ok := g.edges[*fromID][toID]; ok && t.RequiredPermission != "" {
		return t.RequiredPermission
	}
	return DefaultTransitionPermission
}

// WorkflowGraphCache loads the graph once and serves it until an admin edit
// invalidates it. A TTL bounds staleness across processes.
type WorkflowGraphCache struct {
	db  *gorm.DB
	ttl time.Duration

	mu        sync.RWMutex
	graph     *WorkflowGraph
	fetchedAt time.Time
}

func NewWorkflowGraphCache(db *gorm.DB) *WorkflowGraphCache {
	return &WorkflowGraphCache{db: db, ttl: 5 * time.Minute}
}

// Get returns the current graph, rebuilding it from the database when the
// cache is empty or stale.
func (c *WorkflowGraphCache) Get() (*WorkflowGraph, error) {
	c.mu.RLock()
	cached := c.graph
	fetchedAt := c.fetchedAt
	c.mu.RUnlock()

	if cached != nil && time.Since(fetchedAt) < c.ttl {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.graph != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.graph, nil
	}

	var states []models.WorkflowState
	if err := c.db.Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to load workflow states: %w", err)
	}
	var transitions []models.WorkflowTransition
	if err := c.db.Find(&transitions).Error; err != nil {
		return nil, fmt.Errorf("failed to load workflow transitions: %w", err)
	}

	c.graph = NewWorkflowGraph(states, transitions)
	c.fetchedAt = time.Now()
	return c.graph, nil
}

// Invalidate drops the cached graph so the next Get rebuilds it.
func (c *WorkflowGraphCache) Invalidate() {
	c.mu.Lock()
	c.graph = nil
	c.mu.Unlock()
}
