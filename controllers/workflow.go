package controllers

import (
	"net/http"
	"strconv"
	"time"

	"editorial-api/config"
	"editorial-api/models"
	"editorial-api/services"

	"github.com/gin-gonic/gin"
)

// GetWorkflow returns all states and transitions.
func GetWorkflow(c *gin.Context) {
	var states []models.WorkflowState
	if err := config.DB.Order("state_id ASC").Find(&states).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workflow states"})
		return
	}

	var transitions []models.WorkflowTransition
	if err := config.DB.Preload("FromState").Preload("ToState").
		Order("transition_id ASC").Find(&transitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load workflow transitions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"states": states, "transitions": transitions})
}

// CreateWorkflowState adds a state and invalidates the cached graph.
func CreateWorkflowState(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IsInitial   bool   `json:"is_initial"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	state := models.WorkflowState{
		Name:        req.Name,
		Description: req.Description,
		IsInitial:   req.IsInitial,
		CreateAt:    &now,
	}
	if err := config.DB.Create(&state).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "State name already exists"})
		return
	}

	services.Graphs.Invalidate()
	c.JSON(http.StatusCreated, gin.H{"state": state})
}

// CreateWorkflowTransition adds an edge and invalidates the cached graph.
func CreateWorkflowTransition(c *gin.Context) {
	var req struct {
		FromStateID        int    `json:"from_state_id" binding:"required"`
		ToStateID          int    `json:"to_state_id" binding:"required"`
		Label              string `json:"label"`
		RequiredPermission string `json:"required_permission"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	transition := models.WorkflowTransition{
		FromStateID:        req.FromStateID,
		ToStateID:          req.ToStateID,
		Label:              req.Label,
		RequiredPermission: req.RequiredPermission,
		CreateAt:           &now,
	}
	if err := config.DB.Create(&transition).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Transition already exists"})
		return
	}

	services.Graphs.Invalidate()
	c.JSON(http.StatusCreated, gin.H{"transition": transition})
}

// DeleteWorkflowTransition removes an edge and invalidates the cached graph.
func DeleteWorkflowTransition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transition id"})
		return
	}

	res := config.DB.Delete(&models.WorkflowTransition{}, "transition_id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transition"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transition not found"})
		return
	}

	services.Graphs.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
