package service

import (
	"errors"
	"fmt"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService computes recipient sets for state transitions and
// writes one notification row per recipient. Fan-out methods take the
// caller's transaction handle so the rows commit or roll back together with
// the transition that caused them. There is no standalone "send" entry point.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Refs carries the optional entity references stamped onto notifications
type Refs struct {
	TeamID *uuid.UUID
	NodeID *uuid.UUID
	TaskID *uuid.UUID
}

// NotifyTeam inserts one notification per current member of the team,
// including the sender. Recipients are deduplicated within this call only;
// repeated calls produce repeated notifications. An empty team is a silent
// no-op.
func (s *NotificationService) NotifyTeam(tx *gorm.DB, teamID uuid.UUID, ntype models.NotificationType, senderID uuid.UUID, content string, refs Refs) error {
	memberships, err := repository.NewMembershipRepository(tx).GetByTeamID(teamID)
	if err != nil {
		return fmt.Errorf("failed to resolve team members: %w", err)
	}
	return s.fanOut(tx, memberships, ntype, senderID, content, refs)
}

// NotifyCoaches inserts one notification per coach of the team
func (s *NotificationService) NotifyCoaches(tx *gorm.DB, teamID uuid.UUID, ntype models.NotificationType, senderID uuid.UUID, content string, refs Refs) error {
	memberships, err := repository.NewMembershipRepository(tx).GetByTeamAndRole(teamID, models.RoleCoach)
	if err != nil {
		return fmt.Errorf("failed to resolve team coaches: %w", err)
	}
	return s.fanOut(tx, memberships, ntype, senderID, content, refs)
}

// NotifyUser inserts a single notification row for one recipient
func (s *NotificationService) NotifyUser(tx *gorm.DB, recipientID uuid.UUID, ntype models.NotificationType, senderID uuid.UUID, content string, refs Refs) error {
	n := models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        ntype,
		Content:     content,
		TeamID:      refs.TeamID,
		NodeID:      refs.NodeID,
		TaskID:      refs.TaskID,
	}
	if err := repository.NewNotificationRepository(tx).Create(&n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) fanOut(tx *gorm.DB, memberships []models.Membership, ntype models.NotificationType, senderID uuid.UUID, content string, refs Refs) error {
	if len(memberships) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(memberships))
	notifications := make([]models.Notification, 0, len(memberships))
	for _, m := range memberships {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		notifications = append(notifications, models.Notification{
			RecipientID: m.UserID,
			SenderID:    senderID,
			Type:        ntype,
			Content:     content,
			TeamID:      refs.TeamID,
			NodeID:      refs.NodeID,
			TaskID:      refs.TaskID,
		})
	}

	if err := repository.NewNotificationRepository(tx).CreateBatch(notifications); err != nil {
		return fmt.Errorf("failed to fan out notifications: %w", err)
	}
	return nil
}

// NotificationResponse represents one notification for API consumers
type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.NotificationType `json:"type"`
	SenderID  uuid.UUID               `json:"sender_id"`
	Content   string                  `json:"content"`
	TeamID    *uuid.UUID              `json:"team_id,omitempty"`
	NodeID    *uuid.UUID              `json:"node_id,omitempty"`
	TaskID    *uuid.UUID              `json:"task_id,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt string                  `json:"created_at"`
}

// NotificationListResponse represents a paginated notification list
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// List retrieves the acting user's notifications, newest first
func (s *NotificationService) List(recipientID uuid.UUID, page, pageSize int) (*NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	repo := repository.NewNotificationRepository(s.db)
	offset := (page - 1) * pageSize
	notifications, total, err := repo.GetByRecipient(recipientID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := repo.CountUnread(recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			SenderID:  n.SenderID,
			Content:   n.Content,
			TeamID:    n.TeamID,
			NodeID:    n.NodeID,
			TaskID:    n.TaskID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return &NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// MarkRead flips the is_read flag of one of the acting user's notifications
func (s *NotificationService) MarkRead(recipientID, notificationID uuid.UUID) error {
	repo := repository.NewNotificationRepository(s.db)
	n, err := repo.GetByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	// A notification is only visible to its recipient
	if n.RecipientID != recipientID {
		return apperrors.ErrNotificationNotFound
	}

	if err := repo.MarkRead(notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
