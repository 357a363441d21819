package services

import (
	"fmt"
	"time"

	"editorial-api/models"

	"gorm.io/gorm"
)

// The fixed role and permission catalog. Seeding is idempotent; it is run
// once at install time and may be re-run safely after upgrades.

var seedRoles = []models.Role{
	{Name: "Administrator", Description: "Manage users, roles, permissions, and system configuration"},
	{Name: "Technical Admin", Description: "Manage infrastructure, backups, security, and server settings"},
	{Name: "Editor-in-Chief", Description: "Oversee all submissions and make final decisions"},
	{Name: "Managing Editor", Description: "Oversee editorial workflow, deadlines, and policies"},
	{Name: "Section Editor", Description: "Assign reviewers and recommend decisions"},
	{Name: "Guest Editor", Description: "Manage special issues or themed sections"},
	{Name: "Reviewer", Description: "Perform peer reviews and submit feedback"},
	{Name: "Author", Description: "Submit manuscripts and revisions"},
	{Name: "Copyeditor / Proofreader", Description: "Edit accepted manuscripts for language and formatting"},
	{Name: "Production Editor", Description: "Prepare publication-ready files and manage final formatting"},
	{Name: "Finance / Payment Manager", Description: "Manage invoices, payments, subscriptions"},
	{Name: "Visitor / Reader", Description: "Browse and read published articles"},
}

var seedPermissions = []models.Permission{
	{Code: PermManageUsers, Description: "Create/update users and assign roles"},
	{Code: PermManageRolesPerms, Description: "Create/update roles and grant permissions"},
	{Code: PermManageSettings, Description: "Change system/application settings"},
	{Code: PermViewDashboard, Description: "View system and editorial dashboards"},
	{Code: PermManageInfrastructure, Description: "Manage servers, deployments, and infrastructure"},
	{Code: PermManageBackupsSecurity, Description: "Manage backups and security policies"},
	{Code: PermManageJournals, Description: "Create/update journals and sections"},
	{Code: PermViewSubmissions, Description: "View manuscript submissions and statuses"},
	{Code: PermAssignEditors, Description: "Assign editors to manuscripts"},
	{Code: PermAssignReviewers, Description: "Assign reviewers to manuscripts"},
	{Code: PermRecommendDecision, Description: "Recommend accept/reject decisions"},
	{Code: PermMakeFinalDecision, Description: "Make final accept/reject decisions"},
	{Code: PermPublishIssue, Description: "Publish issues and articles"},
	{Code: PermSubmitManuscript, Description: "Submit manuscripts and revisions"},
	{Code: PermReviewManuscripts, Description: "Provide peer reviews and recommendations"},
	{Code: PermUploadFiles, Description: "Upload and manage related files"},
	{Code: PermManageSpecialIssues, Description: "Manage special issues/themed sections"},
	{Code: PermCopyeditContent, Description: "Copyedit/proofread accepted manuscripts"},
	{Code: PermManageProduction, Description: "Manage production and formatting for publication"},
	{Code: PermManagePayments, Description: "Manage invoices, payments, and subscriptions"},
	{Code: PermViewFinancials, Description: "View financial reports and analytics"},
	{Code: PermViewPublishedArticles, Description: "View published content"},
}

var seedGrants = map[string][]string{
	"Administrator": {
		PermManageUsers, PermManageRolesPerms, PermManageSettings, PermViewDashboard,
		PermManageJournals, PermAssignEditors, PermAssignReviewers, PermMakeFinalDecision,
		PermPublishIssue, PermManagePayments, PermViewFinancials, PermManageInfrastructure,
		PermManageBackupsSecurity, PermManageProduction, PermCopyeditContent, PermViewSubmissions,
	},
	"Technical Admin": {
		PermManageSettings, PermViewDashboard, PermManageInfrastructure, PermManageBackupsSecurity,
	},
	"Editor-in-Chief": {
		PermViewSubmissions, PermAssignEditors, PermAssignReviewers, PermMakeFinalDecision,
		PermPublishIssue, PermViewDashboard, PermManageJournals,
	},
	"Managing Editor": {
		PermViewSubmissions, PermAssignReviewers, PermRecommendDecision, PermPublishIssue,
		PermViewDashboard, PermManageJournals,
	},
	"Section Editor": {
		PermViewSubmissions, PermAssignReviewers, PermRecommendDecision,
	},
	"Guest Editor": {
		PermViewSubmissions, PermManageSpecialIssues, PermAssignReviewers, PermRecommendDecision,
	},
	"Reviewer": {
		PermReviewManuscripts, PermUploadFiles, PermViewSubmissions,
	},
	"Author": {
		PermSubmitManuscript, PermUploadFiles, PermViewSubmissions,
	},
	"Copyeditor / Proofreader": {
		PermCopyeditContent, PermViewSubmissions,
	},
	"Production Editor": {
		PermManageProduction, PermPublishIssue, PermUploadFiles, PermViewSubmissions,
	},
	"Finance / Payment Manager": {
		PermManagePayments, PermViewFinancials, PermViewDashboard,
	},
	"Visitor / Reader": {
		PermViewPublishedArticles,
	},
}

// Default workflow state names.
const (
	StateSubmitted         = "Submitted"
	StateUnderReview       = "UnderReview"
	StateRevisionRequested = "Revision Requested"
	StateAccepted          = "Accepted"
	StateRejected          = "Rejected"
	StatePublished         = "Published"
)

type seedTransition struct {
	from       string
	to         string
	label      string
	permission string // empty means the default editorial capability
}

var seedWorkflow = []seedTransition{
	{from: StateSubmitted, to: StateUnderReview, label: "Send to review"},
	{from: StateSubmitted, to: StateRejected, label: "Desk reject", permission: PermMakeFinalDecision},
	{from: StateUnderReview, to: StateRevisionRequested, label: "Request revision"},
	{from: StateUnderReview, to: StateAccepted, label: "Accept", permission: PermMakeFinalDecision},
	{from: StateUnderReview, to: StateRejected, label: "Reject", permission: PermMakeFinalDecision},
	{from: StateRevisionRequested, to: StateUnderReview, label: "Resubmit revision"},
	{from: StateAccepted, to: StatePublished, label: "Publish", permission: PermPublishIssue},
}

// SeedCatalog creates the fixed roles, permissions, and grant matrix.
func SeedCatalog(db *gorm.DB) error {
	now := time.Now()

	roleIDs := make(map[string]int, len(seedRoles))
	for _, r := range seedRoles {
		role := models.Role{Name: r.Name}
		if err := db.Where("name = ?", r.Name).
			Attrs(models.Role{Description: r.Description, CreateAt: &now}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %q: %w", r.Name, err)
		}
		roleIDs[r.Name] = role.RoleID
	}

	permIDs := make(map[string]int, len(seedPermissions))
	for _, p := range seedPermissions {
		perm := models.Permission{Code: p.Code}
		if err := db.Where("code = ?", p.Code).
			Attrs(models.Permission{Description: p.Description, CreateAt: &now}).
			FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to seed permission %q: %w", p.Code, err)
		}
		permIDs[p.Code] = perm.PermissionID
	}

	for roleName, codes := range seedGrants {
		roleID, ok := roleIDs[roleName]
		if !ok {
			return fmt.Errorf("grant matrix references unknown role %q", roleName)
		}
		for _, code := range codes {
			permID, ok := permIDs[code]
			if !ok {
				return fmt.Errorf("grant matrix references unknown permission %q", code)
			}
			grant := models.RolePermission{RoleID: roleID, PermissionID: permID}
			if err := db.Where("role_id = ? AND permission_id = ?", roleID, permID).
				Attrs(models.RolePermission{CreateAt: now}).
				FirstOrCreate(&grant).Error; err != nil {
				return fmt.Errorf("failed to seed grant %s -> %s: %w", roleName, code, err)
			}
		}
	}

	return nil
}

// SeedWorkflow creates the default editorial state machine.
func SeedWorkflow(db *gorm.DB) error {
	now := time.Now()

	stateIDs := make(map[string]int)
	names := []string{
		StateSubmitted, StateUnderReview, StateRevisionRequested,
		StateAccepted, StateRejected, StatePublished,
	}
	for _, name := range names {
		state := models.WorkflowState{Name: name}
		if err := db.Where("name = ?", name).
			Attrs(models.WorkflowState{IsInitial: name == StateSubmitted, CreateAt: &now}).
			FirstOrCreate(&state).Error; err != nil {
			return fmt.Errorf("failed to seed workflow state %q: %w", name, err)
		}
		stateIDs[name] = state.StateID
	}

	for _, t := range seedWorkflow {
		transition := models.WorkflowTransition{
			FromStateID: stateIDs[t.from],
			ToStateID:   stateIDs[t.to],
		}
		if err := db.Where("from_state_id = ? AND to_state_id = ?", stateIDs[t.from], stateIDs[t.to]).
			Attrs(models.WorkflowTransition{
				Label:              t.label,
				RequiredPermission: t.permission,
				CreateAt:           &now,
			}).
			FirstOrCreate(&transition).Error; err != nil {
			return fmt.Errorf("failed to seed transition %s -> %s: %w", t.from, t.to, err)
		}
	}

	return nil
}
