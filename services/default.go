package services

import "gorm.io/gorm"

// Shared service instances. The caches and the per-manuscript lock table
// must outlive individual requests, so they are wired once at startup.
var (
	Registry  *PermissionRegistry
	Auth      *AuthorizationEngine
	Graphs    *WorkflowGraphCache
	Lifecycle *LifecycleService
)

// Init wires the shared services against the given database handle. Called
// once from main after the database connection is established.
func Init(db *gorm.DB) {
	Registry = NewPermissionRegistry(db)
	Auth = NewAuthorizationEngine(Registry)
	Graphs = NewWorkflowGraphCache(db)
	Lifecycle = NewLifecycleService(db, Auth, Graphs, NewInboxNotifier(db))
}
