package models

import (
	"time"
)

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;uniqueIndex" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	IsSuperuser bool       `gorm:"column:is_superuser" json:"is_superuser"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Roles   []Role       `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;references:RoleID;joinReferences:RoleID" json:"roles,omitempty"`
	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

type Role struct {
	RoleID      int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Name        string     `gorm:"column:name;uniqueIndex" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	Permissions []Permission `gorm:"many2many:role_permissions;foreignKey:RoleID;joinForeignKey:RoleID;references:PermissionID;joinReferences:PermissionID" json:"permissions,omitempty"`
}

// Permission is a grantable capability identified by its code. Authorization
// checks use the code only, never the description.
type Permission struct {
	PermissionID int        `gorm:"primaryKey;column:permission_id" json:"permission_id"`
	Code         string     `gorm:"column:code;uniqueIndex" json:"code"`
	Description  string     `gorm:"column:description" json:"description"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
}

// RolePermission joins a role to a granted permission. The composite unique
// index makes Grant idempotent under concurrent duplicate calls.
type RolePermission struct {
	RolePermissionID int       `gorm:"primaryKey;column:role_permission_id" json:"role_permission_id"`
	RoleID           int       `gorm:"column:role_id;uniqueIndex:idx_role_permission" json:"role_id"`
	PermissionID     int       `gorm:"column:permission_id;uniqueIndex:idx_role_permission" json:"permission_id"`
	CreateAt         time.Time `gorm:"column:create_at" json:"create_at"`
}

// UserRole assigns a role to a user. A user may hold several roles; the
// effective permission set is the union across all of them.
type UserRole struct {
	UserRoleID int       `gorm:"primaryKey;column:user_role_id" json:"user_role_id"`
	UserID     int       `gorm:"column:user_id;uniqueIndex:idx_user_role" json:"user_id"`
	RoleID     int       `gorm:"column:role_id;uniqueIndex:idx_user_role" json:"role_id"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
}

type UserProfile struct {
	UserProfileID int        `gorm:"primaryKey;column:user_profile_id" json:"user_profile_id"`
	UserID        int        `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Affiliation   *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	Orcid         *string    `gorm:"column:orcid" json:"orcid,omitempty"`
	Bio           *string    `gorm:"column:bio" json:"bio,omitempty"`
	MobilePhone   *string    `gorm:"column:mobile_phone" json:"mobile_phone,omitempty"`
	WorkPhone     *string    `gorm:"column:work_phone" json:"work_phone,omitempty"`
	Title         *string    `gorm:"column:title" json:"title,omitempty"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

// FullName joins first and last name for notification and display purposes.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Permission) TableName() string {
	return "permissions"
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
