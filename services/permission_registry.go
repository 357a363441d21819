package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"editorial-api/models"

	"gorm.io/gorm"
)

// PermissionRegistry answers capability questions. Role and grant data live
// in the role/permission join tables; effective permission sets are cached
// per user and rebuilt when grants or role assignments change.
type PermissionRegistry struct {
	db *gorm.DB

	mu    sync.RWMutex
	cache map[int]map[string]struct{}
}

func NewPermissionRegistry(db *gorm.DB) *PermissionRegistry {
	return &PermissionRegistry{
		db:    db,
		cache: make(map[int]map[string]struct{}),
	}
}

// Grant links a permission to a role. Granting an already granted pair is a
// no-op; the unique index on (role_id, permission_id) backstops concurrent
// duplicate calls.
func (r *PermissionRegistry) Grant(roleID, permissionID int) error {
	grant := models.RolePermission{RoleID: roleID, PermissionID: permissionID}
	err := r.db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Attrs(models.RolePermission{CreateAt: time.Now()}).
		FirstOrCreate(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to grant permission %d to role %d: %w", permissionID, roleID, err)
	}
	r.InvalidateAll()
	return nil
}

// AssignRole links a role to a user, idempotently.
func (r *PermissionRegistry) AssignRole(userID, roleID int) error {
	assignment := models.UserRole{UserID: userID, RoleID: roleID}
	err := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Attrs(models.UserRole{CreateAt: time.Now()}).
		FirstOrCreate(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}
	r.Invalidate(userID)
	return nil
}

// RemoveRole detaches a role from a user.
func (r *PermissionRegistry) RemoveRole(userID, roleID int) error {
	err := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove role %d from user %d: %w", roleID, userID, err)
	}
	r.Invalidate(userID)
	return nil
}

// EffectivePermissions returns the union of permission codes across all
// roles held by the user. A user with no roles gets an empty set.
func (r *PermissionRegistry) EffectivePermissions(userID int) (map[string]struct{}, error) {
	r.mu.RLock()
	cached, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var codes []string
	err := r.db.Model(&models.Permission{}).
		Distinct("permissions.code").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.permission_id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions for user %d: %w", userID, err)
	}

	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	r.mu.Lock()
	r.cache[userID] = set
	r.mu.Unlock()
	return set, nil
}

// HasPermission reports whether the user may perform the given capability.
// Superusers bypass the registry unconditionally.
func (r *PermissionRegistry) HasPermission(user *models.User, code string) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	set, err := r.EffectivePermissions(user.UserID)
	if err != nil {
		return false, err
	}
	_, ok := set[code]
	return ok, nil
}

// Invalidate drops the cached permission set for one user.
func (r *PermissionRegistry) Invalidate(userID int) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// InvalidateAll drops every cached permission set. Called after grant
// changes, which may affect any user holding the role.
func (r *PermissionRegistry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[int]map[string]struct{})
	r.mu.Unlock()
}
