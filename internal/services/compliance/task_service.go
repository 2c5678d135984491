package compliance

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tamsys/backend/internal/apperrors"
	"github.com/tamsys/backend/internal/models"
	"gorm.io/gorm"
)

// TaskService handles compliance tasks and worknotes. Every operation goes
// through the owning record's tenant check.
type TaskService struct {
	db      *gorm.DB
	records *RecordService
}

// NewTaskService creates a new task service
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, records: NewRecordService(db)}
}

// ListTasks returns all tasks for a record, oldest first
func (s *TaskService) ListTasks(tenantID, recordID uuid.UUID) ([]models.ComplianceTask, error) {
	if _, err := s.records.GetRecord(tenantID, recordID); err != nil {
		return nil, err
	}

	var tasks []models.ComplianceTask
	if err := s.db.Where("record_id = ?", recordID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return tasks, nil
}

// CreateTask attaches a new task to a record
func (s *TaskService) CreateTask(tenantID, recordID uuid.UUID, task *models.ComplianceTask) error {
	if strings.TrimSpace(task.Title) == "" {
		return apperrors.InvalidInput("task title is required")
	}
	if _, err := s.records.GetRecord(tenantID, recordID); err != nil {
		return err
	}

	task.RecordID = recordID
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	if err := s.db.Create(task).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// GetTask returns a task after verifying its record belongs to the tenant
func (s *TaskService) GetTask(tenantID, taskID uuid.UUID) (*models.ComplianceTask, error) {
	var task models.ComplianceTask
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task %s", taskID)
		}
		return nil, apperrors.Persistence(err)
	}
	if _, err := s.records.GetRecord(tenantID, task.RecordID); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates a task's status and fields
func (s *TaskService) UpdateTask(tenantID, taskID uuid.UUID, status models.TaskStatus, title, description, assignee string) (*models.ComplianceTask, error) {
	task, err := s.GetTask(tenantID, taskID)
	if err != nil {
		return nil, err
	}

	if status != "" {
		switch status {
		case models.TaskTodo, models.TaskInProgress, models.TaskDone:
			task.Status = status
		default:
			return nil, apperrors.InvalidInput("unknown task status %q", status)
		}
	}
	if title != "" {
		task.Title = title
	}
	if description != "" {
		task.Description = description
	}
	if assignee != "" {
		task.Assignee = assignee
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return task, nil
}

// AddNote appends a worknote to a task
func (s *TaskService) AddNote(tenantID, taskID uuid.UUID, note *models.ComplianceTaskNote) error {
	if strings.TrimSpace(note.Note) == "" {
		return apperrors.InvalidInput("note text is required")
	}
	if _, err := s.GetTask(tenantID, taskID); err != nil {
		return err
	}

	note.TaskID = taskID
	if err := s.db.Create(note).Error; err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

// ListNotes returns a task's worknotes, newest first
func (s *TaskService) ListNotes(tenantID, taskID uuid.UUID) ([]models.ComplianceTaskNote, error) {
	if _, err := s.GetTask(tenantID, taskID); err != nil {
		return nil, err
	}

	var notes []models.ComplianceTaskNote
	if err := s.db.Where("task_id = ?", taskID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return notes, nil
}
