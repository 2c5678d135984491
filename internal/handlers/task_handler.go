package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/models"
	"github.com/tamsys/backend/internal/services/compliance"
)

// TaskHandler handles compliance task and worknote requests
type TaskHandler struct {
	tasks *compliance.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *compliance.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks lists the tasks attached to a record
// GET /api/records/:id/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	tasks, err := h.tasks.ListTasks(tenantID, recordID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// CreateTask attaches a new task to a record
// POST /api/records/:id/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Assignee    string `json:"assignee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	task := models.ComplianceTask{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
	}
	if err := h.tasks.CreateTask(tenantID, recordID, &task); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask updates a task's status or fields
// PATCH /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req struct {
		Status      string `json:"status"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Assignee    string `json:"assignee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.tasks.UpdateTask(tenantID, taskID, models.TaskStatus(req.Status), req.Title, req.Description, req.Assignee)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AddNote appends a worknote to a task
// POST /api/tasks/:id/notes
func (h *TaskHandler) AddNote(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req struct {
		Note   string `json:"note" binding:"required"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note is required"})
		return
	}

	note := models.ComplianceTaskNote{Note: req.Note, Author: req.Author}
	if err := h.tasks.AddNote(tenantID, taskID, &note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// ListNotes returns a task's worknotes
// GET /api/tasks/:id/notes
func (h *TaskHandler) ListNotes(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	notes, err := h.tasks.ListNotes(tenantID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes, "count": len(notes)})
}
