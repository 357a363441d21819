package models

import "time"

// WorkflowState is a named stage in the editorial lifecycle. States carry no
// implicit ordering; the transition edge set defines what is reachable.
type WorkflowState struct {
	StateID     int        `gorm:"primaryKey;column:state_id" json:"state_id"`
	Name        string     `gorm:"column:name;uniqueIndex" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	IsInitial   bool       `gorm:"column:is_initial" json:"is_initial"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
}

// WorkflowTransition is a directed edge between two states. At most one edge
// exists per ordered (from,to) pair. RequiredPermission overrides the default
// capability needed to take the edge; empty means the standard editorial one.
type WorkflowTransition struct {
	TransitionID       int        `gorm:"primaryKey;column:transition_id" json:"transition_id"`
	FromStateID        int        `gorm:"column:from_state_id;uniqueIndex:idx_transition_edge" json:"from_state_id"`
	ToStateID          int        `gorm:"column:to_state_id;uniqueIndex:idx_transition_edge" json:"to_state_id"`
	Label              string     `gorm:"column:label" json:"label"`
	RequiredPermission string     `gorm:"column:required_permission" json:"required_permission"`
	CreateAt           *time.Time `gorm:"column:create_at" json:"create_at"`

	FromState *WorkflowState `gorm:"foreignKey:FromStateID" json:"from_state,omitempty"`
	ToState   *WorkflowState `gorm:"foreignKey:ToStateID" json:"to_state,omitempty"`
}

// TableName overrides
func (WorkflowState) TableName() string {
	return "workflow_states"
}

func (WorkflowTransition) TableName() string {
	return "workflow_transitions"
}
