package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/logger"
	"github.com/taikikob/teamup-sub000/internal/media"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accessCodeRetries bounds the insert-retry loop on code collisions
const accessCodeRetries = 5

// MembershipService owns team membership and the team lifecycle around it:
// creating teams, joining by code, leaving, removal, and the cascade deletion
// coordinator that tears a team down.
type MembershipService struct {
	db            *gorm.DB
	validator     *validator.Validate
	notifications *NotificationService
	mediaStore    media.Store
	mediaCache    media.CacheInvalidator
	codeTTL       time.Duration
	generateCode  func() string
	log           *logger.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	db *gorm.DB,
	validator *validator.Validate,
	notifications *NotificationService,
	mediaStore media.Store,
	mediaCache media.CacheInvalidator,
	codeTTL time.Duration,
	generateCode func() string,
) *MembershipService {
	return &MembershipService{
		db:            db,
		validator:     validator,
		notifications: notifications,
		mediaStore:    mediaStore,
		mediaCache:    mediaCache,
		codeTTL:       codeTTL,
		generateCode:  generateCode,
		log:           logger.New().WithField("service", "membership"),
	}
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// AccessCodeResponse represents one join code
type AccessCodeResponse struct {
	Code      string      `json:"code"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// CreateTeamResponse carries the new team together with its join codes
type CreateTeamResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	AccessCodes []AccessCodeResponse `json:"access_codes"`
}

// JoinResponse reports the membership granted by a join code
type JoinResponse struct {
	TeamID   uuid.UUID   `json:"team_id"`
	TeamName string      `json:"team_name"`
	Role     models.Role `json:"role"`
}

// LeaveResult discriminates the two outcomes of leaving a team: the caller's
// rows were removed, or the whole team went away because the last coach left.
type LeaveResult struct {
	TeamDeleted bool `json:"team_deleted"`
}

// CreateTeam creates a team, makes the creator its coach, and mints one join
// code per role. Everything happens in one transaction; a team is never
// visible without its codes.
func (s *MembershipService) CreateTeam(creatorID uuid.UUID, req *CreateTeamRequest) (*CreateTeamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var resp *CreateTeamResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewUserRepository(tx).GetByID(creatorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to resolve creator: %w", err)
		}

		team := &models.Team{Name: req.Name, Description: req.Description}
		if err := repository.NewTeamRepository(tx).Create(team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		membership := &models.Membership{TeamID: team.ID, UserID: creatorID, Role: models.RoleCoach}
		if err := repository.NewMembershipRepository(tx).Create(membership); err != nil {
			return fmt.Errorf("failed to create coach membership: %w", err)
		}

		codes, err := s.mintCodes(tx, team.ID)
		if err != nil {
			return err
		}

		resp = &CreateTeamResponse{
			ID:          team.ID,
			Name:        team.Name,
			Description: team.Description,
			AccessCodes: codes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// JoinByCode redeems a join code for a membership. Codes are reusable until
// rotated or expired; joining a team twice is a conflict regardless of role.
func (s *MembershipService) JoinByCode(userID uuid.UUID, code string) (*JoinResponse, error) {
	if code == "" {
		return nil, apperrors.NewValidationError("code", "access code is required")
	}

	var resp *JoinResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		accessCode, err := repository.NewAccessCodeRepository(tx).GetByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAccessCodeNotFound
			}
			return fmt.Errorf("failed to look up access code: %w", err)
		}
		if accessCode.Expired(time.Now()) {
			return apperrors.ErrAccessCodeExpired
		}

		team, err := repository.NewTeamRepository(tx).GetByID(accessCode.TeamID)
		if err != nil {
			return fmt.Errorf("failed to load team: %w", err)
		}

		membership := &models.Membership{TeamID: team.ID, UserID: userID, Role: accessCode.Role}
		if err := repository.NewMembershipRepository(tx).Create(membership); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}

		resp = &JoinResponse{TeamID: team.ID, TeamName: team.Name, Role: accessCode.Role}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RotateCodes replaces both of a team's join codes with fresh ones. Old codes
// stop working the moment the transaction commits.
func (s *MembershipService) RotateCodes(teamID uuid.UUID) ([]AccessCodeResponse, error) {
	var codes []AccessCodeResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := repository.NewTeamRepository(tx).CheckTeamExists(teamID)
		if err != nil {
			return fmt.Errorf("failed to check team: %w", err)
		}
		if !exists {
			return apperrors.ErrTeamNotFound
		}

		if err := repository.NewAccessCodeRepository(tx).DeleteByTeamID(teamID); err != nil {
			return fmt.Errorf("failed to delete old codes: %w", err)
		}

		codes, err = s.mintCodes(tx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// GetCodes returns a team's current join codes
func (s *MembershipService) GetCodes(teamID uuid.UUID) ([]AccessCodeResponse, error) {
	rows, err := repository.NewAccessCodeRepository(s.db).GetByTeamID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access codes: %w", err)
	}
	codes := make([]AccessCodeResponse, len(rows))
	for i, c := range rows {
		codes[i] = AccessCodeResponse{Code: c.Code, Role: c.Role, ExpiresAt: c.ExpiresAt}
	}
	return codes, nil
}

// DeleteTeam tears a team down: every member is notified first so the
// notifications reference a team that still resolves, media keys are
// enumerated and handed to the collaborators best-effort, then the team row
// goes away and the foreign-key cascades take everything else with it. One
// transaction covers the whole teardown.
func (s *MembershipService) DeleteTeam(ctx context.Context, teamID, actorID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteTeamTx(ctx, tx, teamID, actorID)
	})
}

// deleteTeamTx is the cascade deletion coordinator, shared by DeleteTeam and
// the last-coach branch of LeaveTeam. It assumes the caller holds the
// transaction.
func (s *MembershipService) deleteTeamTx(ctx context.Context, tx *gorm.DB, teamID, actorID uuid.UUID) error {
	team, err := repository.NewTeamRepository(tx).GetByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}

	// Notify before the membership rows disappear; the notification rows keep
	// a nulled team reference after the cascade.
	content := fmt.Sprintf("Team %q was deleted", team.Name)
	refs := Refs{TeamID: &team.ID}
	if err := s.notifications.NotifyTeam(tx, teamID, models.NotificationTypeTeamDeleted, actorID, content, refs); err != nil {
		return err
	}

	keys, err := repository.NewTaskRepository(tx).MediaKeysByTeamID(teamID)
	if err != nil {
		return fmt.Errorf("failed to enumerate media keys: %w", err)
	}
	if team.CoverImageKey != "" {
		keys = append(keys, team.CoverImageKey)
	}
	for _, key := range keys {
		s.cleanupMedia(ctx, key)
	}

	if err := repository.NewTeamRepository(tx).Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// LeaveTeam removes the caller from a team. A player's lifecycle rows and
// comments go with them; a coach leaves only their membership behind if peers
// remain; the last coach leaving deletes the whole team.
func (s *MembershipService) LeaveTeam(ctx context.Context, teamID, userID uuid.UUID) (*LeaveResult, error) {
	var result *LeaveResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		membershipRepo := repository.NewMembershipRepository(tx)
		membership, err := membershipRepo.GetByTeamAndUser(teamID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMembershipNotFound
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}

		if membership.Role == models.RoleCoach {
			coaches, err := membershipRepo.CountByTeamAndRole(teamID, models.RoleCoach)
			if err != nil {
				return fmt.Errorf("failed to count coaches: %w", err)
			}
			if coaches <= 1 {
				if err := s.deleteTeamTx(ctx, tx, teamID, userID); err != nil {
					return err
				}
				result = &LeaveResult{TeamDeleted: true}
				return nil
			}
			if err := membershipRepo.DeleteByTeamAndUser(teamID, userID); err != nil {
				return fmt.Errorf("failed to delete membership: %w", err)
			}
			result = &LeaveResult{TeamDeleted: false}
			return nil
		}

		if err := s.removePlayerRows(tx, teamID, userID); err != nil {
			return err
		}
		result = &LeaveResult{TeamDeleted: false}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemovePlayer ejects a player from a team and tells them once. Coaches
// cannot be removed; they leave on their own terms.
func (s *MembershipService) RemovePlayer(teamID, playerID, actorID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		membership, err := repository.NewMembershipRepository(tx).GetByTeamAndUser(teamID, playerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPlayerNotFound
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}
		if membership.Role == models.RoleCoach {
			return apperrors.ErrCoachCannotBeRemoved
		}

		team, err := repository.NewTeamRepository(tx).GetByID(teamID)
		if err != nil {
			return fmt.Errorf("failed to load team: %w", err)
		}

		if err := s.removePlayerRows(tx, teamID, playerID); err != nil {
			return err
		}

		content := fmt.Sprintf("You were removed from team %q", team.Name)
		refs := Refs{TeamID: &team.ID}
		return s.notifications.NotifyUser(tx, playerID, models.NotificationTypeRemoved, actorID, content, refs)
	})
}

// removePlayerRows deletes a player's membership together with their
// submissions, completions, comments and authored posts for the team
func (s *MembershipService) removePlayerRows(tx *gorm.DB, teamID, playerID uuid.UUID) error {
	if err := repository.NewLifecycleRepository(tx).DeletePlayerRowsInTeam(teamID, playerID); err != nil {
		return fmt.Errorf("failed to delete player lifecycle rows: %w", err)
	}
	if err := repository.NewPostRepository(tx).DeleteByTeamAndAuthor(teamID, playerID); err != nil {
		return fmt.Errorf("failed to delete player posts: %w", err)
	}
	if err := repository.NewMembershipRepository(tx).DeleteByTeamAndUser(teamID, playerID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

// mintCodes inserts one fresh code per role. Collisions against the global
// unique index are retried with a new random code; the keyspace makes more
// than a retry or two vanishingly unlikely.
func (s *MembershipService) mintCodes(tx *gorm.DB, teamID uuid.UUID) ([]AccessCodeResponse, error) {
	repo := repository.NewAccessCodeRepository(tx)
	expiresAt := time.Now().Add(s.codeTTL)

	roles := []models.Role{models.RoleCoach, models.RolePlayer}
	codes := make([]AccessCodeResponse, 0, len(roles))
	for _, role := range roles {
		var created *models.AccessCode
		for attempt := 0; attempt < accessCodeRetries; attempt++ {
			candidate := &models.AccessCode{
				TeamID:    teamID,
				Code:      s.generateCode(),
				Role:      role,
				ExpiresAt: expiresAt,
			}
			// Savepoint per attempt: a unique violation aborts the enclosing
			// Postgres transaction otherwise, and the retry would never run.
			if err := tx.SavePoint("mint_code").Error; err != nil {
				return nil, fmt.Errorf("failed to create savepoint: %w", err)
			}
			err := repo.Create(candidate)
			if err == nil {
				created = candidate
				break
			}
			if rbErr := tx.RollbackTo("mint_code").Error; rbErr != nil {
				return nil, fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("failed to create access code: %w", err)
			}
			s.log.WithField("team_id", teamID).Debugf("access code collision, retrying (attempt %d)", attempt+1)
		}
		if created == nil {
			return nil, apperrors.ErrAccessCodeExhausted
		}
		codes = append(codes, AccessCodeResponse{Code: created.Code, Role: created.Role, ExpiresAt: created.ExpiresAt})
	}
	return codes, nil
}

// cleanupMedia best-effort deletes one media object and invalidates its
// cached copies. Failures are logged and swallowed so the teardown itself
// never rolls back over a collaborator outage.
func (s *MembershipService) cleanupMedia(ctx context.Context, key string) {
	if err := s.mediaStore.DeleteObject(ctx, key); err != nil {
		s.log.WithField("key", key).
			Errorf("media delete failed, leaving orphan: %v", apperrors.NewExternalError("media store", err))
	}
	if err := s.mediaCache.Invalidate(ctx, key); err != nil {
		s.log.WithField("key", key).
			Warnf("media cache invalidation failed: %v", apperrors.NewExternalError("media cache", err))
	}
}
