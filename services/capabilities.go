package services

// Permission codes. The code strings are the sole identifier used in
// authorization checks and they match the seeded permission catalog.
const (
	// System and admin
	PermManageUsers           = "manage_users"
	PermManageRolesPerms      = "manage_roles_permissions"
	PermManageSettings        = "manage_settings"
	PermViewDashboard         = "view_dashboard"
	PermManageInfrastructure  = "manage_infrastructure"
	PermManageBackupsSecurity = "manage_backups_security"

	// Journal and workflow
	PermManageJournals    = "manage_journals"
	PermViewSubmissions   = "view_submissions"
	PermAssignEditors     = "assign_editors"
	PermAssignReviewers   = "assign_reviewers"
	PermRecommendDecision = "recommend_decision"
	PermMakeFinalDecision = "make_final_decision"
	PermPublishIssue      = "publish_issue"

	// Manuscripts and reviews
	PermSubmitManuscript    = "submit_manuscript"
	PermReviewManuscripts   = "review_manuscripts"
	PermUploadFiles         = "upload_files"
	PermManageSpecialIssues = "manage_special_issues"

	// Production
	PermCopyeditContent  = "copyedit_content"
	PermManageProduction = "manage_production"

	// Finance
	PermManagePayments = "manage_payments"
	PermViewFinancials = "view_financials"

	// Public
	PermViewPublishedArticles = "view_published_articles"
)

// Operation identifies one coordinator operation for the static
// operation-to-capability table.
type Operation string

const (
	OpSubmitManuscript  Operation = "submit_manuscript"
	OpReviseVersion     Operation = "revise_version"
	OpAssignEditor      Operation = "assign_editor"
	OpOpenReviewRound   Operation = "open_review_round"
	OpAssignReviewer    Operation = "assign_reviewer"
	OpSubmitReview      Operation = "submit_review"
	OpRecordDecision    Operation = "record_decision"
	OpViewSubmissions   Operation = "view_submissions"
	OpViewPublished     Operation = "view_published"
	OpManageWorkflow    Operation = "manage_workflow"
	OpManageJournals    Operation = "manage_journals"
	OpManageUsers       Operation = "manage_users"
	OpManageRoleGrants  Operation = "manage_role_grants"
	OpAttachReviewFiles Operation = "attach_review_files"
)

// requiredCapability maps each operation to the permission code that gates
// it. Transitions are not listed here; their capability depends on the edge
// and is resolved through the workflow graph.
var requiredCapability = map[Operation]string{
	OpSubmitManuscript:  PermSubmitManuscript,
	OpReviseVersion:     PermUploadFiles,
	OpAssignEditor:      PermAssignEditors,
	OpOpenReviewRound:   PermAssignReviewers,
	OpAssignReviewer:    PermAssignReviewers,
	OpSubmitReview:      PermReviewManuscripts,
	OpRecordDecision:    PermMakeFinalDecision,
	OpViewSubmissions:   PermViewSubmissions,
	OpViewPublished:     PermViewPublishedArticles,
	OpManageWorkflow:    PermManageSettings,
	OpManageJournals:    PermManageJournals,
	OpManageUsers:       PermManageUsers,
	OpManageRoleGrants:  PermManageRolesPerms,
	OpAttachReviewFiles: PermUploadFiles,
}

// CapabilityFor returns the permission code gating the given operation.
func CapabilityFor(op Operation) (string, bool) {
	code, ok := requiredCapability[op]
	return code, ok
}

// DefaultTransitionPermission gates workflow edges that do not declare their
// own required permission.
const DefaultTransitionPermission = PermAssignEditors
