package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService owns the flat per-(player, task) comment threads
type CommentService struct {
	db            *gorm.DB
	validator     *validator.Validate
	notifications *NotificationService
}

// NewCommentService creates a new comment service
func NewCommentService(db *gorm.DB, validator *validator.Validate, notifications *NotificationService) *CommentService {
	return &CommentService{db: db, validator: validator, notifications: notifications}
}

// AddCommentRequest represents the request to append a comment to a thread
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse represents one thread entry
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Add appends a comment to the (task, player) thread and notifies the
// counterparty: the player writing notifies every coach, a coach writing
// notifies the player. The insert and the fan-out share one transaction.
func (s *CommentService) Add(taskID, playerID, senderID uuid.UUID, req *AddCommentRequest) (*CommentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var resp *CommentResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := repository.NewTaskRepository(tx).GetByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaskNotFound
			}
			return fmt.Errorf("failed to get task: %w", err)
		}

		comment := &models.Comment{
			TaskID:   taskID,
			PlayerID: playerID,
			SenderID: senderID,
			Content:  req.Content,
		}
		if err := repository.NewCommentRepository(tx).Create(comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		sender, err := repository.NewUserRepository(tx).GetByID(senderID)
		if err != nil {
			return fmt.Errorf("failed to resolve sender: %w", err)
		}

		teamID := task.TeamID
		tID := task.ID
		refs := Refs{TeamID: &teamID, TaskID: &tID}
		content := fmt.Sprintf("%s commented on task %q", sender.FullName, task.Title)
		if senderID == playerID {
			err = s.notifications.NotifyCoaches(tx, task.TeamID, models.NotificationTypeComment, senderID, content, refs)
		} else {
			err = s.notifications.NotifyUser(tx, playerID, models.NotificationTypeComment, senderID, content, refs)
		}
		if err != nil {
			return err
		}

		resp = &CommentResponse{
			ID:         comment.ID,
			TaskID:     comment.TaskID,
			PlayerID:   comment.PlayerID,
			SenderID:   comment.SenderID,
			SenderName: sender.FullName,
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetThread returns the flat thread for a (task, player) pair, oldest first
func (s *CommentService) GetThread(taskID, playerID uuid.UUID) ([]CommentResponse, error) {
	if _, err := repository.NewTaskRepository(s.db).GetByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	comments, err := repository.NewCommentRepository(s.db).GetThread(taskID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	responses := make([]CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = CommentResponse{
			ID:         c.ID,
			TaskID:     c.TaskID,
			PlayerID:   c.PlayerID,
			SenderID:   c.SenderID,
			SenderName: c.Sender.FullName,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
		}
	}
	return responses, nil
}
