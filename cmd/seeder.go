package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/hr-records/internal/absence"
	"github.com/frahmantamala/hr-records/internal/auth"
	authPostgres "github.com/frahmantamala/hr-records/internal/auth/postgres"
	absenceDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/absence"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	feedbackDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/feedback"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/seed.yml
var defaultFixtures []byte

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts, employee profiles, absences and feedback for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := defaultFixtures
		if seedFile != "" {
			raw, err := os.ReadFile(seedFile)
			if err != nil {
				return fmt.Errorf("failed to read fixtures: %w", err)
			}
			data = raw
		}
		fixtures, err := parseFixtures(data)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		db, err := openStores(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		s := &seeder{
			db:       db.Gorm,
			accounts: authPostgres.NewRepository(db.SQL),
			cost:     cfg.Security.BCryptCost,
		}
		return s.run(context.Background(), fixtures, clearData)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixtures file (defaults to the built-in set)")
}

type fixtureFile struct {
	Password string            `yaml:"password"`
	Accounts []accountFixture  `yaml:"accounts"`
	Absences []absenceFixture  `yaml:"absences"`
	Feedback []feedbackFixture `yaml:"feedback"`
}

type accountFixture struct {
	Username  string         `yaml:"username"`
	Email     string         `yaml:"email"`
	Role      string         `yaml:"role"`
	FirstName string         `yaml:"first_name"`
	LastName  string         `yaml:"last_name"`
	Profile   profileFixture `yaml:"profile"`
}

type profileFixture struct {
	Position         string   `yaml:"position"`
	Department       string   `yaml:"department"`
	Phone            string   `yaml:"phone"`
	OfficeLocation   string   `yaml:"office_location"`
	Salary           *float64 `yaml:"salary"`
	DateOfBirth      string   `yaml:"date_of_birth"`
	HireDate         string   `yaml:"hire_date"`
	ContractType     string   `yaml:"contract_type"`
	NationalID       string   `yaml:"national_id"`
	BankAccount      string   `yaml:"bank_account"`
	Address          string   `yaml:"address"`
	EmergencyContact string   `yaml:"emergency_contact"`
}

type absenceFixture struct {
	Username  string `yaml:"username"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Type      string `yaml:"type"`
	Reason    string `yaml:"reason"`
	Status    string `yaml:"status"`
	DecidedBy string `yaml:"decided_by"`
}

type feedbackFixture struct {
	Author  string `yaml:"author"`
	About   string `yaml:"about"`
	Content string `yaml:"content"`
}

// parseFixtures decodes and checks a fixtures file. References between
// sections must name accounts declared in the same file.
func parseFixtures(data []byte) (*fixtureFile, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	if f.Password == "" {
		return nil, errors.New("invalid fixtures: password is required")
	}

	known := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Username == "" || a.Email == "" {
			return nil, errors.New("invalid fixtures: every account needs a username and email")
		}
		if _, err := auth.AccessRole(a.Role); err != nil {
			return nil, fmt.Errorf("invalid fixtures: account %s: %w", a.Username, err)
		}
		known[a.Username] = true
	}

	for _, a := range f.Absences {
		if !known[a.Username] {
			return nil, fmt.Errorf("invalid fixtures: absence for unknown account %q", a.Username)
		}
		if _, ok := absence.ParseType(a.Type); !ok {
			return nil, fmt.Errorf("invalid fixtures: absence type %q", a.Type)
		}
		status, ok := absence.ParseStatus(a.Status)
		if !ok {
			return nil, fmt.Errorf("invalid fixtures: absence status %q", a.Status)
		}
		if status.IsDecision() && !known[a.DecidedBy] {
			return nil, fmt.Errorf("invalid fixtures: %s absence needs a known decided_by", status)
		}
		start, err := parseDay(a.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDay(a.EndDate)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, fmt.Errorf("invalid fixtures: absence for %s ends before it starts", a.Username)
		}
	}

	for _, fb := range f.Feedback {
		if !known[fb.Author] || !known[fb.About] {
			return nil, fmt.Errorf("invalid fixtures: feedback %s -> %s names an unknown account", fb.Author, fb.About)
		}
		if fb.Author == fb.About {
			return nil, fmt.Errorf("invalid fixtures: %s cannot leave feedback for themselves", fb.Author)
		}
	}

	return &f, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fixtures: date %q: %w", s, err)
	}
	return t, nil
}

func optionalDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseDay(s)
	if err != nil {
		return nil
	}
	return &t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type seededAccount struct {
	accountID  int64
	employeeID int64
	name       string
}

type seeder struct {
	db       *gorm.DB
	accounts *authPostgres.Repository
	cost     int
}

func (s *seeder) run(ctx context.Context, f *fixtureFile, clear bool) error {
	lg := logger.L()

	if clear {
		for _, table := range []string{"feedbacks", "absences", "employees", "accounts"} {
			if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		lg.Info("cleared existing data")
	}

	hash, err := auth.HashPassword(f.Password, s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	seeded := make(map[string]seededAccount, len(f.Accounts))
	for _, a := range f.Accounts {
		acc, err := s.ensureAccount(ctx, a, hash)
		if err != nil {
			return err
		}
		seeded[a.Username] = acc
	}

	for _, a := range f.Absences {
		if err := s.insertAbsence(ctx, a, seeded); err != nil {
			return err
		}
	}

	for _, fb := range f.Feedback {
		row := &feedbackDatamodel.Feedback{
			EmployeeID:      seeded[fb.About].employeeID,
			AuthorID:        seeded[fb.Author].accountID,
			AuthorName:      seeded[fb.Author].name,
			OriginalContent: fb.Content,
		}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert feedback for %s: %w", fb.About, err)
		}
	}

	lg.Info("seed complete",
		"accounts", len(f.Accounts),
		"absences", len(f.Absences),
		"feedback", len(f.Feedback))
	return nil
}

// ensureAccount creates the account and its employee profile, or reuses an
// existing account with the same username.
func (s *seeder) ensureAccount(ctx context.Context, a accountFixture, hash string) (seededAccount, error) {
	name := a.FirstName + " " + a.LastName

	exists, err := s.accounts.UsernameExists(ctx, a.Username)
	if err != nil {
		return seededAccount{}, err
	}
	if exists {
		acc, err := s.accounts.GetByUsername(ctx, a.Username)
		if err != nil {
			return seededAccount{}, err
		}
		employeeID, err := s.accounts.GetEmployeeID(ctx, acc.ID)
		if err != nil {
			return seededAccount{}, err
		}
		fmt.Println("account already exists:", a.Username)
		return seededAccount{accountID: acc.ID, employeeID: employeeID, name: name}, nil
	}

	acc := &auth.Account{
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: hash,
		Role:         a.Role,
		IsActive:     true,
	}
	employeeID, err := s.accounts.CreateWithEmployee(ctx, acc, a.FirstName, a.LastName)
	if err != nil {
		return seededAccount{}, fmt.Errorf("failed to create account %s: %w", a.Username, err)
	}

	p := a.Profile
	updates := map[string]interface{}{
		"position":          p.Position,
		"department":        p.Department,
		"phone":             p.Phone,
		"office_location":   p.OfficeLocation,
		"salary":            p.Salary,
		"date_of_birth":     optionalDay(p.DateOfBirth),
		"hire_date":         optionalDay(p.HireDate),
		"contract_type":     optionalString(p.ContractType),
		"national_id":       optionalString(p.NationalID),
		"bank_account":      optionalString(p.BankAccount),
		"address":           optionalString(p.Address),
		"emergency_contact": optionalString(p.EmergencyContact),
	}
	if err := s.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", employeeID).Updates(updates).Error; err != nil {
		return seededAccount{}, fmt.Errorf("failed to fill profile of %s: %w", a.Username, err)
	}

	fmt.Printf("Seeded %s account: %s\n", a.Role, a.Username)
	return seededAccount{accountID: acc.ID, employeeID: employeeID, name: name}, nil
}

func (s *seeder) insertAbsence(ctx context.Context, a absenceFixture, seeded map[string]seededAccount) error {
	start, _ := parseDay(a.StartDate)
	end, _ := parseDay(a.EndDate)
	kind, _ := absence.ParseType(a.Type)
	status, _ := absence.ParseStatus(a.Status)

	row := &absenceDatamodel.Absence{
		EmployeeID: seeded[a.Username].employeeID,
		StartDate:  start,
		EndDate:    end,
		Type:       string(kind),
		Reason:     a.Reason,
		Status:     string(status),
		Version:    1,
	}
	if status != absence.StatusPending {
		// Cancellation is stamped with the owner.
		actor := seeded[a.Username].accountID
		if status.IsDecision() {
			actor = seeded[a.DecidedBy].accountID
		}
		now := time.Now().UTC()
		row.ApprovedBy = &actor
		row.ApprovedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert absence for %s: %w", a.Username, err)
	}
	return nil
}
