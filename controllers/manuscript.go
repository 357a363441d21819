package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"editorial-api/config"
	"editorial-api/middleware"
	"editorial-api/models"
	"editorial-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitManuscriptRequest struct {
	JournalID     int     `json:"journal_id" binding:"required"`
	SectionID     *int    `json:"section_id"`
	Title         string  `json:"title" binding:"required"`
	Abstract      string  `json:"abstract" binding:"required"`
	FileReference *string `json:"file_reference"`
}

// SubmitManuscript intakes a new submission through the lifecycle service.
func SubmitManuscript(c *gin.Context) {
	var req SubmitManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	manuscript, err := services.Lifecycle.Submit(user, services.SubmitInput{
		JournalID:     req.JournalID,
		SectionID:     req.SectionID,
		Title:         req.Title,
		Abstract:      req.Abstract,
		FileReference: req.FileReference,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"manuscript": manuscript})
}

// GetManuscripts lists submissions visible to the caller.
func GetManuscripts(c *gin.Context) {
	user := middleware.CurrentUser(c)

	query := config.DB.Preload("CurrentState").Preload("Journal").Preload("Section")

	// Authors without broader view rights only see their own submissions.
	set, err := services.Registry.EffectivePermissions(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permissions"})
		return
	}
	_, canAssign := set[services.PermAssignEditors]
	_, canDecide := set[services.PermMakeFinalDecision]
	if !user.IsSuperuser && !canAssign && !canDecide {
		query = query.Where("corresponding_author_id = ?", user.UserID)
	}

	if stateName := c.Query("state"); stateName != "" {
		query = query.Joins("JOIN workflow_states ON workflow_states.state_id = manuscripts.current_state_id").
			Where("workflow_states.name = ?", stateName)
	}

	var manuscripts []models.Manuscript
	if err := query.Order("manuscripts.create_at DESC").Find(&manuscripts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscripts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"manuscripts": manuscripts})
}

// GetManuscript returns one manuscript with its versions, history and
// decisions.
func GetManuscript(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var manuscript models.Manuscript
	if err := config.DB.
		Preload("CurrentState").
		Preload("Journal").
		Preload("Section").
		Preload("Versions", func(db *gorm.DB) *gorm.DB { return db.Order("version_number ASC") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		Preload("StatusHistory.State").
		Preload("Decisions", func(db *gorm.DB) *gorm.DB { return db.Order("decided_at DESC") }).
		Where("manuscript_id = ?", id).
		First(&manuscript).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"manuscript": manuscript})
}

// ReviseManuscript uploads a revised file and records the next version.
func ReviseManuscript(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	user := middleware.CurrentUser(c)

	// Multipart upload is optional; a bare JSON body with a pre-stored
	// reference is also accepted.
	var fileReference *string
	if file, err := c.FormFile("file"); err == nil {
		stored := uuid.New().String() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(uploadPath(), stored)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
			return
		}
		fileReference = &stored
	} else {
		var body struct {
			FileReference *string `json:"file_reference"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			fileReference = body.FileReference
		}
	}

	version, err := services.Lifecycle.ReviseVersion(user, id, fileReference)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"version": version})
}

// TransitionManuscript moves a manuscript to the requested state.
func TransitionManuscript(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var req struct {
		ToState string `json:"to_state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	history, err := services.Lifecycle.Transition(user, id, req.ToState)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetNextStates enumerates the legal next states for a manuscript.
func GetNextStates(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	user := middleware.CurrentUser(c)
	states, err := services.Lifecycle.LegalNextStates(user, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"next_states": states})
}

// AssignEditor attaches an editor to a manuscript.
func AssignEditor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var req struct {
		EditorID   int    `json:"editor_id" binding:"required"`
		EditorRole string `json:"editor_role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	assignment, err := services.Lifecycle.AssignEditor(user, id, req.EditorID, req.EditorRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// RecordDecision appends a decision without moving the workflow state.
func RecordDecision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	decision, err := services.Lifecycle.RecordDecision(user, id, req.Decision)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"decision": decision})
}

// DecideManuscript records a decision and transitions the manuscript in one
// atomic operation.
func DecideManuscript(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		ToState  string `json:"to_state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	decision, history, err := services.Lifecycle.Decide(user, id, req.Decision, req.ToState)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision, "history": history})
}
