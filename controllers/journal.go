package controllers

import (
	"net/http"
	"strconv"
	"time"

	"editorial-api/config"
	"editorial-api/models"
	"editorial-api/utils"

	"github.com/gin-gonic/gin"
)

// GetJournals lists active journals with their sections. Public journal
// metadata, gated by the published-articles capability.
func GetJournals(c *gin.Context) {
	var journals []models.Journal
	if err := config.DB.Preload("Sections").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&journals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"journals": journals})
}

// GetJournal returns one journal by slug.
func GetJournal(c *gin.Context) {
	var journal models.Journal
	if err := config.DB.Preload("Sections").
		Where("slug = ?", c.Param("slug")).
		First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"journal": journal})
}

// CreateJournal adds a journal (admin).
func CreateJournal(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Slug        string  `json:"slug" binding:"required"`
		IssnPrint   *string `json:"issn_print"`
		IssnOnline  *string `json:"issn_online"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateSlug(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
		return
	}

	now := time.Now()
	journal := models.Journal{
		Name:        req.Name,
		Slug:        req.Slug,
		IssnPrint:   req.IssnPrint,
		IssnOnline:  req.IssnOnline,
		Description: req.Description,
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&journal).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Journal name or slug already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"journal": journal})
}

// UpdateJournal edits journal fields (admin).
func UpdateJournal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal id"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ?", id).First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		journal.Name = *req.Name
	}
	if req.Description != nil {
		journal.Description = *req.Description
	}
	if req.IsActive != nil {
		journal.IsActive = *req.IsActive
	}
	now := time.Now()
	journal.UpdateAt = &now

	if err := config.DB.Save(&journal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"journal": journal})
}

// CreateSection adds a section to a journal (admin).
func CreateSection(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal id"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateSlug(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ?", journalID).First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	now := time.Now()
	section := models.Section{
		JournalID: journalID,
		Name:      req.Name,
		Slug:      req.Slug,
		CreateAt:  &now,
	}
	if err := config.DB.Create(&section).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Section slug already exists in this journal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section})
}
