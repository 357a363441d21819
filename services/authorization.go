package services

import "editorial-api/models"

// AuthorizationEngine is a thin policy layer over the permission registry.
// Every mutating coordinator operation consults it before touching state.
type AuthorizationEngine struct {
	registry *PermissionRegistry
}

func NewAuthorizationEngine(registry *PermissionRegistry) *AuthorizationEngine {
	return &AuthorizationEngine{registry: registry}
}

// Authorize allows or denies the user for the required capability. A nil
// user is always denied; authentication is a precondition, never implied.
func (a *AuthorizationEngine) Authorize(user *models.User, code string) error {
	if user == nil || user.UserID == 0 {
		return ErrPermissionDenied
	}
	ok, err := a.registry.HasPermission(user, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

// AuthorizeOperation resolves the capability gating op and authorizes it.
func (a *AuthorizationEngine) AuthorizeOperation(user *models.User, op Operation) error {
	code, ok := CapabilityFor(op)
	if !ok {
		return ErrPermissionDenied
	}
	return a.Authorize(user, code)
}
