// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"fieldops/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumCompanies      int
	NumUsersPerCo     int
	NumAccessRequests int
	NumApprovals      int
	ShouldClean       bool
	// SkipBcrypt stores a plaintext marker password instead of hashing,
	// which makes large seeds dramatically faster.
	SkipBcrypt bool
}

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

// Seeder populates the database with plausible workflow data.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{"approval_requests", "access_requests", "users", "companies"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

func (s *Seeder) hashedPassword() string {
	if s.opts.SkipBcrypt {
		return DefaultPassword
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	return string(hashed)
}

// CreateCompany persists a sample company.
func (s *Seeder) CreateCompany(overrides ...func(*models.Company)) (*models.Company, error) {
	companyType := models.CompanyTypeService
	if s.rng.Intn(3) == 0 {
		companyType = models.CompanyTypeClient
	}
	company := &models.Company{
		Name:        fmt.Sprintf("%s %s", gofakeit.Company(), gofakeit.CompanySuffix()),
		CompanyType: companyType,
	}
	for _, override := range overrides {
		override(company)
	}
	if err := s.db.Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// CreateUser persists a sample user for a company.
func (s *Seeder) CreateUser(company *models.Company, role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  s.hashedPassword(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Phone:     gofakeit.Phone(),
		Role:      role,
	}
	if company != nil {
		user.CompanyID = &company.ID
	}
	for _, override := range overrides {
		override(user)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAccessRequest persists a pending access request.
func (s *Seeder) CreateAccessRequest(overrides ...func(*models.AccessRequest)) (*models.AccessRequest, error) {
	roles := []models.Role{
		models.RoleProjectManager, models.RoleManager,
		models.RoleDispatcher, models.RoleFieldAgent, models.RoleClient,
	}
	req := &models.AccessRequest{
		FirstName:     gofakeit.FirstName(),
		LastName:      gofakeit.LastName(),
		Email:         gofakeit.Email(),
		Phone:         gofakeit.Phone(),
		RequestedRole: roles[s.rng.Intn(len(roles))],
		Status:        models.AccessRequestStatusPending,
	}
	for _, override := range overrides {
		override(req)
	}
	if err := s.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// CreateApprovalRequest persists a pending approval item.
func (s *Seeder) CreateApprovalRequest(requester *models.User, overrides ...func(*models.ApprovalRequest)) (*models.ApprovalRequest, error) {
	types := []models.ApprovalRequestType{
		models.ApprovalTypeBudget, models.ApprovalTypeEscalation,
	}
	priorities := []models.ApprovalPriority{
		models.PriorityNormal, models.PriorityNormal,
		models.PriorityHigh, models.PriorityUrgent,
	}
	req := &models.ApprovalRequest{
		Type:              types[s.rng.Intn(len(types))],
		Status:            models.ApprovalStatusPending,
		Priority:          priorities[s.rng.Intn(len(priorities))],
		Notes:             gofakeit.Sentence(8),
		RequestedByUserID: requester.ID,
	}
	if req.Type == models.ApprovalTypeBudget {
		amount := float64(gofakeit.Number(500, 50000))
		req.BudgetAmount = &amount
	}
	for _, override := range overrides {
		override(req)
	}
	if err := s.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// SeedWorkflow populates companies, staff, and both review queues.
func (s *Seeder) SeedWorkflow() error {
	numCompanies := s.opts.NumCompanies
	if numCompanies <= 0 {
		numCompanies = 3
	}
	usersPerCo := s.opts.NumUsersPerCo
	if usersPerCo <= 0 {
		usersPerCo = 5
	}

	var staff []*models.User
	for i := 0; i < numCompanies; i++ {
		company, err := s.CreateCompany()
		if err != nil {
			return fmt.Errorf("seed company: %w", err)
		}

		admin, err := s.CreateUser(company, models.RoleAdministrator)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		staff = append(staff, admin)

		roles := []models.Role{
			models.RoleProjectManager, models.RoleManager,
			models.RoleDispatcher, models.RoleFieldAgent,
		}
		for j := 0; j < usersPerCo-1; j++ {
			user, err := s.CreateUser(company, roles[j%len(roles)])
			if err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
			staff = append(staff, user)
		}
	}
	log.Printf("Seeded %d companies with %d users", numCompanies, len(staff))

	numAccess := s.opts.NumAccessRequests
	if numAccess <= 0 {
		numAccess = 10
	}
	for i := 0; i < numAccess; i++ {
		if _, err := s.CreateAccessRequest(); err != nil {
			return fmt.Errorf("seed access request: %w", err)
		}
	}

	numApprovals := s.opts.NumApprovals
	if numApprovals <= 0 {
		numApprovals = 8
	}
	for i := 0; i < numApprovals; i++ {
		requester := staff[s.rng.Intn(len(staff))]
		if _, err := s.CreateApprovalRequest(requester); err != nil {
			return fmt.Errorf("seed approval request: %w", err)
		}
	}
	log.Printf("Seeded %d access requests and %d approval requests", numAccess, numApprovals)

	return nil
}
