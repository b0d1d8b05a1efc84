package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/logger"
	"github.com/taikikob/teamup-sub000/internal/media"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService owns the ordered task lists attached to graph nodes
type TaskService struct {
	db         *gorm.DB
	validator  *validator.Validate
	mediaStore media.Store
	mediaCache media.CacheInvalidator
	log        *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(db *gorm.DB, validator *validator.Validate, mediaStore media.Store, mediaCache media.CacheInvalidator) *TaskService {
	return &TaskService{
		db:         db,
		validator:  validator,
		mediaStore: mediaStore,
		mediaCache: mediaCache,
		log:        logger.New().WithField("service", "task"),
	}
}

// CreateTaskRequest represents the request to create a task under a node
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Order       int    `json:"order" validate:"gte=0"`
}

// EditDescriptionRequest represents the request to change a task description
type EditDescriptionRequest struct {
	Description string `json:"description" validate:"max=2000"`
}

// ReorderRequest lists every sibling task of one node in its new order
type ReorderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" validate:"required,min=1"`
}

// TaskResponse represents one task for API consumers
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	NodeID      string    `json:"node_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// Create creates a task under the node identified by its external ID
func (s *TaskService) Create(teamID uuid.UUID, nodeExternalID string, req *CreateTaskRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	node, err := repository.NewGraphRepository(s.db).GetNodeByExternalID(teamID, nodeExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	task := &models.Task{
		TeamID:      teamID,
		NodeID:      node.ID,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.Order,
	}
	if err := repository.NewTaskRepository(s.db).Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.toResponse(task, nodeExternalID), nil
}

// ListByNode returns the tasks of a node in rank order
func (s *TaskService) ListByNode(teamID uuid.UUID, nodeExternalID string) ([]TaskResponse, error) {
	node, err := repository.NewGraphRepository(s.db).GetNodeByExternalID(teamID, nodeExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	tasks, err := repository.NewTaskRepository(s.db).GetByNodeID(node.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = *s.toResponse(&tasks[i], nodeExternalID)
	}
	return responses, nil
}

// Reorder assigns dense 0..n-1 ranks to a node's tasks following the
// caller-supplied sequence. The sequence must name every sibling exactly
// once; the rewrite is all-or-nothing.
func (s *TaskService) Reorder(teamID uuid.UUID, nodeExternalID string, req *ReorderRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		node, err := repository.NewGraphRepository(tx).GetNodeByExternalID(teamID, nodeExternalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNodeNotFound
			}
			return fmt.Errorf("failed to get node: %w", err)
		}

		taskRepo := repository.NewTaskRepository(tx)
		siblings, err := taskRepo.GetByNodeID(node.ID)
		if err != nil {
			return fmt.Errorf("failed to load sibling tasks: %w", err)
		}

		// The incoming sequence must be a permutation of the sibling set;
		// anything else would leave duplicate or missing ranks.
		if len(req.TaskIDs) != len(siblings) {
			return apperrors.ErrTaskOrderMismatch
		}
		siblingIDs := make(map[uuid.UUID]bool, len(siblings))
		for _, t := range siblings {
			siblingIDs[t.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(req.TaskIDs))
		for _, id := range req.TaskIDs {
			if !siblingIDs[id] || seen[id] {
				return apperrors.ErrTaskOrderMismatch
			}
			seen[id] = true
		}

		for rank, id := range req.TaskIDs {
			if err := taskRepo.SetSortOrder(id, rank); err != nil {
				return fmt.Errorf("failed to set task order: %w", err)
			}
		}
		return nil
	})
}

// EditDescription updates a task's description
func (s *TaskService) EditDescription(teamID, taskID uuid.UUID, req *EditDescriptionRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	task, err := s.getTeamTask(s.db, teamID, taskID)
	if err != nil {
		return nil, err
	}

	task.Description = req.Description
	if err := repository.NewTaskRepository(s.db).Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.toResponseResolvingNode(task)
}

// Delete removes a task together with its submissions, completions, comments
// and media rows, then asks the external collaborators to drop the task's
// media objects. Collaborator failures are logged, never propagated: orphaned
// media is the accepted lesser failure.
func (s *TaskService) Delete(ctx context.Context, teamID, taskID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		task, err := s.getTeamTask(tx, teamID, taskID)
		if err != nil {
			return err
		}

		taskRepo := repository.NewTaskRepository(tx)
		mediaRows, err := taskRepo.GetMediaByTaskID(task.ID)
		if err != nil {
			return fmt.Errorf("failed to enumerate task media: %w", err)
		}

		for _, m := range mediaRows {
			s.cleanupMedia(ctx, m.Key)
		}

		if err := taskRepo.Delete(task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// AddMedia registers a stored media object against a task. The bytes were
// uploaded out of band; only the opaque key is recorded here.
func (s *TaskService) AddMedia(teamID, taskID uuid.UUID, key string) error {
	if key == "" {
		return apperrors.NewValidationError("key", "media key is required")
	}

	task, err := s.getTeamTask(s.db, teamID, taskID)
	if err != nil {
		return err
	}

	m := &models.TaskMedia{TaskID: task.ID, Key: key}
	if err := repository.NewTaskRepository(s.db).CreateMedia(m); err != nil {
		return fmt.Errorf("failed to attach media: %w", err)
	}
	return nil
}

// cleanupMedia best-effort deletes one media object and invalidates its
// cached copies. Errors are captured and logged per call so they can never
// abort the surrounding transaction.
func (s *TaskService) cleanupMedia(ctx context.Context, key string) {
	if err := s.mediaStore.DeleteObject(ctx, key); err != nil {
		s.log.WithField("key", key).
			Errorf("media delete failed, leaving orphan: %v", apperrors.NewExternalError("media store", err))
	}
	if err := s.mediaCache.Invalidate(ctx, key); err != nil {
		s.log.WithField("key", key).
			Warnf("media cache invalidation failed: %v", apperrors.NewExternalError("media cache", err))
	}
}

// getTeamTask fetches a task and checks it belongs to the team
func (s *TaskService) getTeamTask(db *gorm.DB, teamID, taskID uuid.UUID) (*models.Task, error) {
	task, err := repository.NewTaskRepository(db).GetByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.TeamID != teamID {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) toResponse(task *models.Task, nodeExternalID string) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		NodeID:      nodeExternalID,
		Title:       task.Title,
		Description: task.Description,
		Order:       task.SortOrder,
		CreatedAt:   task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *TaskService) toResponseResolvingNode(task *models.Task) (*TaskResponse, error) {
	var node models.Node
	if err := s.db.First(&node, "id = ?", task.NodeID).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve node: %w", err)
	}
	return s.toResponse(task, node.ExternalID), nil
}
