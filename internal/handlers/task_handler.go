package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"etugal/internal/models"
	"etugal/internal/services"
)

type TaskHandler struct {
	service    services.TaskService
	categories services.CategoryService
}

func NewTaskHandler(service services.TaskService, categories services.CategoryService) *TaskHandler {
	return &TaskHandler{service: service, categories: categories}
}

// GET /task/category/list
func (h *TaskHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		log.Printf("[task][categories][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GET /task/list — the discovery feed: open tasks posted by other users.
func (h *TaskHandler) ListOpen(c *gin.Context) {
	profileID := getProfileID(c)

	var categoryID *int64
	if v := c.Query("task_category"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			categoryID = &id
		}
	}

	tasks, err := h.service.ListOpen(c.Request.Context(), profileID, categoryID, c.Query("search"))
	if err != nil {
		log.Printf("[task][feed][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// POST /provider/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	profileID := getProfileID(c)

	var req struct {
		Title        string          `json:"title" binding:"required"`
		Description  string          `json:"description" binding:"required"`
		TaskCategory int64           `json:"task_category" binding:"required"`
		WorkType     models.WorkType `json:"work_type"`
		Reward       float64         `json:"reward"`
		Address      string          `json:"address"`
		Longitude    float64         `json:"longitude"`
		Latitude     float64         `json:"latitude"`
		DoneDate     string          `json:"done_date"` // YYYY-MM-DD
		ScheduleTime *string         `json:"schedule_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doneDate *time.Time
	if req.DoneDate != "" {
		t, err := time.Parse("2006-01-02", req.DoneDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid done_date (YYYY-MM-DD)"})
			return
		}
		doneDate = &t
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.TaskCategory,
		WorkType:     req.WorkType,
		Reward:       req.Reward,
		Address:      req.Address,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		DoneDate:     doneDate,
		ScheduleTime: req.ScheduleTime,
	}
	created, err := h.service.Create(c.Request.Context(), profileID, task)
	if err != nil {
		log.Printf("[task][create][err] provider=%d: %v", profileID, err)
		respondError(c, err, "failed to create task")
		return
	}
	log.Printf("[task][create][ok] id=%d provider=%d", created.ID, profileID)
	c.JSON(http.StatusCreated, created)
}

// GET /provider/tasks — the caller's own postings, optionally by status.
func (h *TaskHandler) ListMine(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	tasks, err := h.service.ListByProvider(c.Request.Context(), getProfileID(c), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /performer/tasks — tasks assigned to the caller, optionally by status.
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	tasks, err := h.service.ListByPerformer(c.Request.Context(), getProfileID(c), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /provider/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PATCH /provider/tasks/:id — partial update of the client-editable fields.
func (h *TaskHandler) Patch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Title        *string          `json:"title"`
		Description  *string          `json:"description"`
		TaskCategory *int64           `json:"task_category"`
		WorkType     *models.WorkType `json:"work_type"`
		Reward       *float64         `json:"reward"`
		Address      *string          `json:"address"`
		Longitude    *float64         `json:"longitude"`
		Latitude     *float64         `json:"latitude"`
		DoneDate     *string          `json:"done_date"`
		ScheduleTime *string          `json:"schedule_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := &services.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.TaskCategory,
		WorkType:     req.WorkType,
		Reward:       req.Reward,
		Address:      req.Address,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		ScheduleTime: req.ScheduleTime,
	}
	if req.DoneDate != nil {
		t, err := time.Parse("2006-01-02", *req.DoneDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid done_date (YYYY-MM-DD)"})
			return
		}
		update.DoneDate = &t
	}

	task, err := h.service.PatchFields(c.Request.Context(), id, update)
	if err != nil {
		log.Printf("[task][patch][err] id=%d: %v", id, err)
		respondError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// PATCH /provider/tasks/:id/patch_performer { "performer_id": 2 }
func (h *TaskHandler) PatchPerformer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		PerformerID int64 `json:"performer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Performer ID is required."})
		return
	}

	task, err := h.service.AssignPerformer(c.Request.Context(), id, req.PerformerID)
	if err != nil {
		log.Printf("[task][assign][err] id=%d performer=%d: %v", id, req.PerformerID, err)
		respondError(c, err, "failed to assign performer")
		return
	}
	log.Printf("[task][assign][ok] id=%d performer=%d", id, req.PerformerID)
	c.JSON(http.StatusOK, task)
}

// PATCH /provider/tasks/:id/patch_status { "status": "COMPLETED" }
func (h *TaskHandler) PatchStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.PatchStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		log.Printf("[task][status][err] id=%d to=%q: %v", id, req.Status, err)
		respondError(c, err, "failed to update status")
		return
	}
	log.Printf("[task][status][ok] id=%d to=%q", id, req.Status)
	c.JSON(http.StatusOK, task)
}

// PATCH /performer/tasks/:id/done { "is_done_perform": true }
func (h *TaskHandler) MarkDone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		IsDonePerform *bool `json:"is_done_perform" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.MarkDonePerform(c.Request.Context(), id, getProfileID(c), *req.IsDonePerform)
	if err != nil {
		log.Printf("[task][done][err] id=%d: %v", id, err)
		respondError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func statusFilter(c *gin.Context) (*models.TaskStatus, bool) {
	v := c.Query("status")
	if v == "" {
		return nil, true
	}
	s := models.TaskStatus(v)
	if !models.IsValidTaskStatus(s) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return nil, false
	}
	return &s, true
}
