package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taikikob/teamup-sub000/internal/accesscode"
	"github.com/taikikob/teamup-sub000/internal/config"
	"github.com/taikikob/teamup-sub000/internal/database"
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match the YAML seed files
type UserData struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
}

type TaskData struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

type NodeData struct {
	NodeID string     `yaml:"node_id"`
	Label  string     `yaml:"label"`
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	Tasks  []TaskData `yaml:"tasks,omitempty"`
}

type EdgeData struct {
	EdgeID string `yaml:"edge_id"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type TeamData struct {
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description,omitempty"`
	CoverImageKey string     `yaml:"cover_image_key,omitempty"`
	Coach         string     `yaml:"coach"`
	Players       []string   `yaml:"players,omitempty"`
	Nodes         []NodeData `yaml:"nodes,omitempty"`
	Edges         []EdgeData `yaml:"edges,omitempty"`
}

type UsersFile struct {
	Users []UserData `yaml:"users"`
}

type TeamsFile struct {
	Teams []TeamData `yaml:"teams"`
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	codeTTL := time.Duration(cfg.AccessCodeTTLHours) * time.Hour
	if err := loadDataFromYAMLFiles(db, "scripts/data", codeTTL); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress verbose GORM logging during data loading
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string, codeTTL time.Duration) error {
	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	teams, err := loadTeams(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	// Create users first; teams reference them by username
	userMap := make(map[string]*models.User)
	userCreated := 0
	for _, userData := range users {
		user, created, err := createUser(db, userData)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.Username, err)
		}
		userMap[userData.Username] = user
		if created {
			userCreated++
		}
	}
	log.Printf("📋 Users: %d created, %d total", userCreated, len(users))

	teamCreated := 0
	for _, teamData := range teams {
		created, err := createTeam(db, teamData, userMap, codeTTL)
		if err != nil {
			return fmt.Errorf("failed to create team %s: %w", teamData.Name, err)
		}
		if created {
			teamCreated++
		}
	}
	log.Printf("📋 Teams: %d created, %d total", teamCreated, len(teams))

	return nil
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func loadTeams(dataDir string) ([]TeamData, error) {
	var allTeams []TeamData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "teams") {
			var file TeamsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allTeams = append(allTeams, file.Teams...)
		}
		return nil
	})

	return allTeams, err
}

func createUser(db *gorm.DB, userData UserData) (*models.User, bool, error) {
	var existing models.User
	err := db.First(&existing, "username = ?", userData.Username).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user := &models.User{
		Username: userData.Username,
		Email:    userData.Email,
		FullName: userData.FullName,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// createTeam seeds one team with its coach, players, join codes and training
// graph. An existing team of the same name is left untouched.
func createTeam(db *gorm.DB, teamData TeamData, userMap map[string]*models.User, codeTTL time.Duration) (bool, error) {
	var existing models.Team
	err := db.First(&existing, "name = ?", teamData.Name).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	coach, ok := userMap[teamData.Coach]
	if !ok {
		return false, fmt.Errorf("coach %s not found in users", teamData.Coach)
	}

	return true, db.Transaction(func(tx *gorm.DB) error {
		team := &models.Team{
			Name:          teamData.Name,
			Description:   teamData.Description,
			CoverImageKey: teamData.CoverImageKey,
		}
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		memberships := []models.Membership{{TeamID: team.ID, UserID: coach.ID, Role: models.RoleCoach}}
		for _, username := range teamData.Players {
			player, ok := userMap[username]
			if !ok {
				return fmt.Errorf("player %s not found in users", username)
			}
			memberships = append(memberships, models.Membership{TeamID: team.ID, UserID: player.ID, Role: models.RolePlayer})
		}
		if err := tx.Create(&memberships).Error; err != nil {
			return err
		}

		expiresAt := time.Now().Add(codeTTL)
		for _, role := range []models.Role{models.RoleCoach, models.RolePlayer} {
			code := &models.AccessCode{
				TeamID:    team.ID,
				Code:      accesscode.Generate(),
				Role:      role,
				ExpiresAt: expiresAt,
			}
			if err := tx.Create(code).Error; err != nil {
				return err
			}
			log.Printf("🔑 Team %q %s code: %s", team.Name, role, code.Code)
		}

		for _, nodeData := range teamData.Nodes {
			node := &models.Node{
				TeamID:     team.ID,
				ExternalID: nodeData.NodeID,
				Label:      nodeData.Label,
				X:          nodeData.X,
				Y:          nodeData.Y,
			}
			if err := tx.Create(node).Error; err != nil {
				return err
			}

			for order, taskData := range nodeData.Tasks {
				task := &models.Task{
					TeamID:      team.ID,
					NodeID:      node.ID,
					Title:       taskData.Title,
					Description: taskData.Description,
					SortOrder:   order,
				}
				if err := tx.Create(task).Error; err != nil {
					return err
				}
			}
		}

		for _, edgeData := range teamData.Edges {
			edge := &models.Edge{
				TeamID:           team.ID,
				ExternalID:       edgeData.EdgeID,
				SourceExternalID: edgeData.Source,
				TargetExternalID: edgeData.Target,
			}
			if err := tx.Create(edge).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
