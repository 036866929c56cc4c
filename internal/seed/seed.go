// Package seed populates the database with development fixtures.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"domainreg/internal/models"
	"domainreg/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var positionNames = []struct {
	name        string
	description string
}{
	{"Professor", "Faculty member"},
	{"Lecturer", "Teaching staff"},
	{"Researcher", "Research staff"},
	{"Graduate Student", "Masters or PhD student"},
	{"Department Staff", "Administrative staff"},
	{"IT Staff", "Campus IT personnel"},
}

var departments = []string{
	"Computer Science",
	"Electrical Engineering",
	"Mathematics",
	"Physics",
	"Biology",
	"Economics",
	"University Library",
	"Student Affairs",
}

var purposes = []string{
	"Course material hosting for the upcoming semester",
	"Research group homepage and publication list",
	"Department event registration site",
	"Student club homepage",
	"Laboratory equipment booking system",
	"Conference website for an international workshop",
	"Internal wiki for the research project",
	"Thesis archive front-end",
}

// Seeder generates fixtures for the request and domain tables.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every row in dependency order so foreign keys hold.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")

	tables := []string{
		"renewal_requests",
		"deleted_domain_logs",
		"domains",
		"domain_requests",
		"users",
		"positions",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Baseline creates the fixed accounts and requests every development
// environment starts from: one admin, two requesters, the position
// lookup table, and three requests in different lifecycle states.
func (s *Seeder) Baseline() error {
	positions, err := s.createPositions()
	if err != nil {
		return fmt.Errorf("creating positions: %w", err)
	}

	admin := &models.User{
		Username: "admin",
		Password: "admin123",
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	users := make([]*models.User, 0, 2)
	for i := 1; i <= 2; i++ {
		username := fmt.Sprintf("user%02d", i)
		user := &models.User{
			Username:   username,
			Password:   "pass" + username,
			Role:       models.RoleUser,
			PositionID: &positions[i%len(positions)].ID,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("creating %s: %w", username, err)
		}
		users = append(users, user)
	}

	now := time.Now()

	// One pending permanent request.
	pending := &models.DomainRequest{
		UserID:          users[0].ID,
		Domain:          "pending.example.edu",
		Purpose:         purposes[0],
		IPAddress:       "10.10.0.1",
		RequesterName:   "First Requester",
		ResponsibleName: "First Responsible",
		Department:      departments[0],
		Contact:         "user01@example.edu",
		ContactType:     models.ContactTypeEmail,
		DurationType:    models.DurationPermanent,
		Status:          models.RequestStatusPending,
		RequestedAt:     now.Add(-48 * time.Hour),
	}
	if err := s.db.Create(pending).Error; err != nil {
		return fmt.Errorf("creating pending request: %w", err)
	}

	// One approved permanent request with its active domain.
	if _, err := s.createApproved(users[0], "www.example.edu", models.DurationPermanent, nil, now); err != nil {
		return err
	}

	// One approved temporary request whose expiry already passed, so the
	// next sweep has something to pick up.
	expired := now.Add(-24 * time.Hour)
	if _, err := s.createApproved(users[1], "workshop2025.example.edu", models.DurationTemporary, &expired, now); err != nil {
		return err
	}

	log.Println("Baseline fixtures created (admin/admin123, user01, user02)")
	return nil
}

// Populate generates numUsers random requester accounts, each with one
// to three requests, roughly half of them already decided.
func (s *Seeder) Populate(numUsers int) error {
	var positions []models.Position
	if err := s.db.Find(&positions).Error; err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("no positions found, run Baseline first")
	}

	now := time.Now()
	created := 0

	for i := 0; i < numUsers; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := &models.User{
			Username:   fmt.Sprintf("%s%d", username, i),
			Password:   gofakeit.Password(true, true, true, false, false, 10),
			Role:       models.RoleUser,
			PositionID: &positions[gofakeit.Number(0, len(positions)-1)].ID,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("creating random user: %w", err)
		}

		numRequests := gofakeit.Number(1, 3)
		for j := 0; j < numRequests; j++ {
			domain := fmt.Sprintf("%s-%d-%d.example.edu",
				strings.ToLower(gofakeit.Word()), i, j)

			durationType := models.DurationPermanent
			var expiresAt *time.Time
			if gofakeit.Bool() {
				durationType = models.DurationTemporary
				exp := now.Add(time.Duration(gofakeit.Number(-30, 365)) * 24 * time.Hour)
				expiresAt = &exp
			}

			if gofakeit.Bool() {
				if _, err := s.createApproved(user, domain, durationType, expiresAt, now); err != nil {
					return err
				}
			} else {
				request := s.buildRequest(user, domain, durationType, expiresAt, now)
				if gofakeit.Number(0, 3) == 0 {
					request.Status = models.RequestStatusRejected
					cooldown := now.Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour)
					request.ApprovalCooldownAt = &cooldown
				}
				if err := s.db.Create(request).Error; err != nil {
					return fmt.Errorf("creating random request: %w", err)
				}
			}
			created++
		}
	}

	log.Printf("Created %d users with %d requests", numUsers, created)
	return nil
}

func (s *Seeder) createPositions() ([]models.Position, error) {
	positions := make([]models.Position, 0, len(positionNames))
	for _, p := range positionNames {
		position := models.Position{
			Name:        p.name,
			Description: p.description,
			IsActive:    true,
		}
		if err := s.db.Create(&position).Error; err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, nil
}

func (s *Seeder) buildRequest(user *models.User, domain string, durationType models.DurationType, expiresAt *time.Time, now time.Time) *models.DomainRequest {
	return &models.DomainRequest{
		UserID:          user.ID,
		Domain:          domain,
		Purpose:         purposes[gofakeit.Number(0, len(purposes)-1)],
		IPAddress:       gofakeit.IPv4Address(),
		RequesterName:   gofakeit.Name(),
		ResponsibleName: gofakeit.Name(),
		Department:      departments[gofakeit.Number(0, len(departments)-1)],
		Contact:         gofakeit.Email(),
		ContactType:     models.ContactTypeEmail,
		DurationType:    durationType,
		ExpiresAt:       expiresAt,
		Status:          models.RequestStatusPending,
		RequestedAt:     now.Add(-time.Duration(gofakeit.Number(1, 240)) * time.Hour),
	}
}

// createApproved inserts an approved request together with its domain
// record, the same pair the approval flow produces.
func (s *Seeder) createApproved(user *models.User, domain string, durationType models.DurationType, expiresAt *time.Time, now time.Time) (*models.Domain, error) {
	request := s.buildRequest(user, domain, durationType, expiresAt, now)
	request.Status = models.RequestStatusApproved
	decidedAt := request.RequestedAt.Add(time.Hour)
	cooldown := decidedAt.Add(service.DecisionCooldown)
	request.ApprovalCooldownAt = &cooldown

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("creating approved request: %w", err)
	}

	record := &models.Domain{
		DomainRequestID: request.ID,
		Status:          models.DomainStatusActive,
		LastUsedAt:      decidedAt,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("creating domain record: %w", err)
	}
	return record, nil
}
