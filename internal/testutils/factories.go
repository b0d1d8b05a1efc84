package testutils

import (
	"fmt"
	"time"

	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with unique default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	short := id.String()[:8]

	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Username: "user_" + short,
		Email:    fmt.Sprintf("user_%s@test.com", short),
		FullName: "Test User " + short,
	}
}

// WithName sets a custom full name for the user
func (f *UserFactory) WithName(fullName string) *models.User {
	user := f.Create()
	user.FullName = fullName
	return user
}

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team with default values
func (f *TeamFactory) Create() *models.Team {
	return &models.Team{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Test Team",
		Description: "A test team for testing purposes",
	}
}

// WithName sets a custom name for the team
func (f *TeamFactory) WithName(name string) *models.Team {
	team := f.Create()
	team.Name = name
	return team
}

// WithCoverImage sets a cover image key for the team
func (f *TeamFactory) WithCoverImage(key string) *models.Team {
	team := f.Create()
	team.CoverImageKey = key
	return team
}

// MembershipFactory provides methods to create test Membership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a player membership joining the given user to the given team
func (f *MembershipFactory) Create(teamID, userID uuid.UUID) *models.Membership {
	return &models.Membership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TeamID: teamID,
		UserID: userID,
		Role:   models.RolePlayer,
	}
}

// Coach creates a coach membership
func (f *MembershipFactory) Coach(teamID, userID uuid.UUID) *models.Membership {
	m := f.Create(teamID, userID)
	m.Role = models.RoleCoach
	return m
}

// NodeFactory provides methods to create test Node data
type NodeFactory struct{}

// NewNodeFactory creates a new NodeFactory
func NewNodeFactory() *NodeFactory {
	return &NodeFactory{}
}

// Create creates a test Node under the given team
func (f *NodeFactory) Create(teamID uuid.UUID, externalID string) *models.Node {
	return &models.Node{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TeamID:     teamID,
		ExternalID: externalID,
		Label:      "Node " + externalID,
		X:          10,
		Y:          20,
	}
}

// TaskFactory provides methods to create test Task data
type TaskFactory struct{}

// NewTaskFactory creates a new TaskFactory
func NewTaskFactory() *TaskFactory {
	return &TaskFactory{}
}

// Create creates a test Task under the given node
func (f *TaskFactory) Create(teamID, nodeID uuid.UUID, order int) *models.Task {
	return &models.Task{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TeamID:      teamID,
		NodeID:      nodeID,
		Title:       fmt.Sprintf("Task %d", order),
		Description: "A test task",
		SortOrder:   order,
	}
}

// AccessCodeFactory provides methods to create test AccessCode data
type AccessCodeFactory struct{}

// NewAccessCodeFactory creates a new AccessCodeFactory
func NewAccessCodeFactory() *AccessCodeFactory {
	return &AccessCodeFactory{}
}

// Create creates an access code for the given team and role
func (f *AccessCodeFactory) Create(teamID uuid.UUID, role models.Role, code string) *models.AccessCode {
	return &models.AccessCode{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TeamID:    teamID,
		Code:      code,
		Role:      role,
		ExpiresAt: time.Now().Add(720 * time.Hour),
	}
}

// Expired creates an access code that expired an hour ago
func (f *AccessCodeFactory) Expired(teamID uuid.UUID, role models.Role, code string) *models.AccessCode {
	c := f.Create(teamID, role, code)
	c.ExpiresAt = time.Now().Add(-time.Hour)
	return c
}

// FactorySet provides access to all factories
type FactorySet struct {
	User       *UserFactory
	Team       *TeamFactory
	Membership *MembershipFactory
	Node       *NodeFactory
	Task       *TaskFactory
	AccessCode *AccessCodeFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:       NewUserFactory(),
		Team:       NewTeamFactory(),
		Membership: NewMembershipFactory(),
		Node:       NewNodeFactory(),
		Task:       NewTaskFactory(),
		AccessCode: NewAccessCodeFactory(),
	}
}

// CreateCoachedTeam seeds a team with one coach and one player, returning all
// four rows ready for insertion
func (fs *FactorySet) CreateCoachedTeam() (*models.Team, *models.User, *models.User, []*models.Membership) {
	team := fs.Team.Create()
	coach := fs.User.WithName("Coach Taylor")
	player := fs.User.WithName("Player One")

	memberships := []*models.Membership{
		fs.Membership.Coach(team.ID, coach.ID),
		fs.Membership.Create(team.ID, player.ID),
	}
	return team, coach, player, memberships
}
