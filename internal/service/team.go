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

// TeamService handles team reads, profile updates and the team feed
type TeamService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewTeamService creates a new team service
func NewTeamService(db *gorm.DB, validator *validator.Validate) *TeamService {
	return &TeamService{db: db, validator: validator}
}

// UpdateTeamRequest represents the request to update a team's profile
type UpdateTeamRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	CoverImageKey *string `json:"cover_image_key,omitempty" validate:"omitempty,max=255"`
}

// CreatePostRequest represents the request to post to the team feed
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// MemberResponse represents one member of a team
type MemberResponse struct {
	UserID   uuid.UUID   `json:"user_id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

// TeamResponse represents a team with its member roster
type TeamResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	CoverImageKey string           `json:"cover_image_key,omitempty"`
	Members       []MemberResponse `json:"members,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MyTeamResponse represents one team from the caller's perspective
type MyTeamResponse struct {
	ID   uuid.UUID   `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// PostResponse represents one team-feed entry
type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListResponse is a paginated page of the team feed
type PostListResponse struct {
	Posts    []PostResponse `json:"posts"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// GetTeam returns a team with its full member roster
func (s *TeamService) GetTeam(teamID uuid.UUID) (*TeamResponse, error) {
	team, err := repository.NewTeamRepository(s.db).GetWithMemberships(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	members := make([]MemberResponse, len(team.Memberships))
	for i, m := range team.Memberships {
		members[i] = MemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			FullName: m.User.FullName,
			Role:     m.Role,
		}
	}

	return &TeamResponse{
		ID:            team.ID,
		Name:          team.Name,
		Description:   team.Description,
		CoverImageKey: team.CoverImageKey,
		Members:       members,
		CreatedAt:     team.CreatedAt,
	}, nil
}

// MyTeams lists every team the user belongs to together with their role
func (s *TeamService) MyTeams(userID uuid.UUID) ([]MyTeamResponse, error) {
	memberships, err := repository.NewMembershipRepository(s.db).GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	teams := make([]MyTeamResponse, len(memberships))
	for i, m := range memberships {
		teams[i] = MyTeamResponse{ID: m.TeamID, Name: m.Team.Name, Role: m.Role}
	}
	return teams, nil
}

// UpdateTeam applies a partial update to a team's profile
func (s *TeamService) UpdateTeam(teamID uuid.UUID, req *UpdateTeamRequest) (*TeamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	repo := repository.NewTeamRepository(s.db)
	team, err := repo.GetByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.CoverImageKey != nil {
		team.CoverImageKey = *req.CoverImageKey
	}

	if err := repo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.GetTeam(teamID)
}

// CreatePost appends an entry to the team feed
func (s *TeamService) CreatePost(teamID, authorID uuid.UUID, req *CreatePostRequest) (*PostResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := repository.NewTeamRepository(s.db).CheckTeamExists(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrTeamNotFound
	}

	post := &models.Post{TeamID: teamID, AuthorID: authorID, Content: req.Content}
	if err := repository.NewPostRepository(s.db).Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &PostResponse{
		ID:        post.ID,
		TeamID:    post.TeamID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}, nil
}

// ListPosts returns a page of the team feed, newest first
func (s *TeamService) ListPosts(teamID uuid.UUID, page, pageSize int) (*PostListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	posts, total, err := repository.NewPostRepository(s.db).GetByTeamID(teamID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	responses := make([]PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = PostResponse{
			ID:        p.ID,
			TeamID:    p.TeamID,
			AuthorID:  p.AuthorID,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		}
	}
	return &PostListResponse{Posts: responses, Total: total, Page: page, PageSize: pageSize}, nil
}
