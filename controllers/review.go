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

// OpenReviewRound starts the next review round for a manuscript.
func OpenReviewRound(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	user := middleware.CurrentUser(c)
	round, err := services.Lifecycle.OpenReviewRound(user, manuscriptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"round": round})
}

// GetReviewRounds lists a manuscript's rounds with assignments and reviews.
func GetReviewRounds(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript id"})
		return
	}

	var rounds []models.ReviewRound
	if err := config.DB.
		Preload("Assignments").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("submitted_at ASC") }).
		Where("manuscript_id = ?", manuscriptID).
		Order("round_number ASC").
		Find(&rounds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review rounds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

// AssignReviewer invites a reviewer to a round.
func AssignReviewer(c *gin.Context) {
	roundID, err := strconv.Atoi(c.Param("round_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round id"})
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	assignment, err := services.Lifecycle.AssignReviewer(user, roundID, req.ReviewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// SubmitReview records the caller's review for a round.
func SubmitReview(c *gin.Context) {
	roundID, err := strconv.Atoi(c.Param("round_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round id"})
		return
	}

	var req struct {
		Comments string `json:"comments" binding:"required"`
		Score    *int   `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	review, err := services.Lifecycle.SubmitReview(user, roundID, req.Comments, req.Score)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// CompleteAssignment marks a review assignment as finished.
func CompleteAssignment(c *gin.Context) {
	assignmentID, err := strconv.Atoi(c.Param("assignment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment id"})
		return
	}

	user := middleware.CurrentUser(c)
	assignment, err := services.Lifecycle.MarkAssignmentCompleted(user, assignmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// UploadReviewFile stores an attachment for a review and records its
// reference.
func UploadReviewFile(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	stored := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadPath(), stored)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	user := middleware.CurrentUser(c)
	reviewFile, err := services.Lifecycle.AttachReviewFile(user, reviewID, file.Filename, stored)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": reviewFile})
}

// GetMyAssignments lists the caller's review assignments.
func GetMyAssignments(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var assignments []models.ReviewAssignment
	if err := config.DB.
		Where("reviewer_id = ?", user.UserID).
		Order("assigned_at DESC").
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}
