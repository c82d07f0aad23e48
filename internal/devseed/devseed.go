// Package devseed loads YAML fixtures of users, equipment and jobs into a
// development database.
package devseed

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/target/jobops-api/internal/data"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
)

//go:embed fixtures/dev.yaml
var defaultFixture []byte

// Fixture is the document shape read by Load.
type Fixture struct {
	Users     []UserFixture      `yaml:"users"`
	Equipment []EquipmentFixture `yaml:"equipment"`
	Jobs      []JobFixture       `yaml:"jobs"`
}

// UserFixture is upserted by username.
type UserFixture struct {
	Username  string          `yaml:"username"`
	Email     string          `yaml:"email"`
	FirstName string          `yaml:"first_name"`
	LastName  string          `yaml:"last_name"`
	Role      domainauth.Role `yaml:"role"`
	Phone     string          `yaml:"phone"`
}

// EquipmentFixture is matched to existing catalog items by serial number.
type EquipmentFixture struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"eq_type"`
	SerialNumber string `yaml:"serial_number"`
	IsActive     *bool  `yaml:"is_active"`
}

// JobFixture references users by username. ScheduledInDays is relative to the
// seeding day so dashboard buckets stay populated.
type JobFixture struct {
	Title           string            `yaml:"title"`
	Description     string            `yaml:"description"`
	ClientName      string            `yaml:"client_name"`
	Priority        model.JobPriority `yaml:"priority"`
	Status          model.JobStatus   `yaml:"status"`
	ScheduledInDays *int              `yaml:"scheduled_in_days"`
	AssignedTo      string            `yaml:"assigned_to"`
	CreatedBy       string            `yaml:"created_by"`
	Tasks           []TaskFixture     `yaml:"tasks"`
}

// TaskFixture references equipment by serial number.
type TaskFixture struct {
	Title       string               `yaml:"title"`
	Description string               `yaml:"description"`
	Status      model.TaskStatus     `yaml:"status"`
	Equipment   []RequirementFixture `yaml:"equipment"`
}

// RequirementFixture is one ledger entry of a task.
type RequirementFixture struct {
	SerialNumber string `yaml:"serial_number"`
	Quantity     *int   `yaml:"quantity"`
	Notes        string `yaml:"notes"`
}

// Load reads a fixture from path, or the embedded development fixture when
// path is empty.
func Load(path string) (*Fixture, error) {
	raw := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes and cross-checks a fixture document.
func Parse(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	users := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		users[u.Username] = true
	}
	serials := make(map[string]bool, len(f.Equipment))
	for _, e := range f.Equipment {
		serials[e.SerialNumber] = true
	}

	var errs []error
	for _, j := range f.Jobs {
		if j.CreatedBy == "" || !users[j.CreatedBy] {
			errs = append(errs, fmt.Errorf("job %q: unknown created_by %q", j.Title, j.CreatedBy))
		}
		if j.AssignedTo != "" && !users[j.AssignedTo] {
			errs = append(errs, fmt.Errorf("job %q: unknown assigned_to %q", j.Title, j.AssignedTo))
		}
		for _, t := range j.Tasks {
			for _, req := range t.Equipment {
				if !serials[req.SerialNumber] {
					errs = append(errs, fmt.Errorf("task %q: unknown equipment %q", t.Title, req.SerialNumber))
				}
				if req.Quantity != nil && *req.Quantity <= 0 {
					errs = append(errs, fmt.Errorf("task %q: quantity for %q must be positive", t.Title, req.SerialNumber))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Services bundles the repositories used for seeding.
type Services struct {
	Users        *data.UserRepo
	Equipment    *data.EquipmentRepo
	Jobs         *data.JobRepo
	Tasks        *data.TaskRepo
	Requirements *data.RequirementRepo
	Now          func() time.Time
}

// NewServices constructs all required repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		Users:        data.NewUserRepo(db),
		Equipment:    data.NewEquipmentRepo(db),
		Jobs:         data.NewJobRepo(db),
		Tasks:        data.NewTaskRepo(db),
		Requirements: data.NewRequirementRepo(db),
		Now:          time.Now,
	}
}

// Summary counts the rows written by Run.
type Summary struct {
	Users     int
	Equipment int
	Jobs      int
	Tasks     int
}

// Run writes f through svcs. Users and equipment are idempotent; jobs are
// always created, so re-running on a seeded database adds another copy.
func Run(ctx context.Context, svcs Services, f *Fixture, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if svcs.Now == nil {
		svcs.Now = time.Now
	}
	var sum Summary

	userIDs, err := seedUsers(ctx, svcs.Users, f.Users, logger)
	if err != nil {
		return sum, err
	}
	sum.Users = len(userIDs)

	equipmentIDs, err := seedEquipment(ctx, svcs.Equipment, f.Equipment, logger)
	if err != nil {
		return sum, err
	}
	sum.Equipment = len(equipmentIDs)

	today := svcs.Now().UTC().Truncate(24 * time.Hour)
	for _, jf := range f.Jobs {
		tasks, jobErr := seedJob(ctx, svcs, jobSeed{
			fixture:   jf,
			users:     userIDs,
			equipment: equipmentIDs,
			today:     today,
		})
		if jobErr != nil {
			return sum, fmt.Errorf("seed job %q: %w", jf.Title, jobErr)
		}
		sum.Jobs++
		sum.Tasks += tasks
		logger.InfoContext(ctx, "seeded job", "title", jf.Title, "tasks", tasks)
	}
	return sum, nil
}

func seedUsers(ctx context.Context, repo *data.UserRepo, in []UserFixture, logger *slog.Logger) (map[string]string, error) {
	ids := make(map[string]string, len(in))
	for _, uf := range in {
		req := &model.CreateUserRequest{
			Username:  uf.Username,
			Email:     uf.Email,
			FirstName: uf.FirstName,
			LastName:  uf.LastName,
			Role:      uf.Role,
			Phone:     uf.Phone,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("user %q: %w", uf.Username, err)
		}
		u, err := repo.UpsertByUsername(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("upsert user %q: %w", uf.Username, err)
		}
		ids[u.Username] = u.ID
		logger.DebugContext(ctx, "seeded user", "username", u.Username, "role", u.Role)
	}
	return ids, nil
}

func seedEquipment(
	ctx context.Context,
	repo *data.EquipmentRepo,
	in []EquipmentFixture,
	logger *slog.Logger,
) (map[string]string, error) {
	existing, err := repo.List(ctx, model.EquipmentListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	ids := make(map[string]string, len(in))
	for _, e := range existing {
		ids[e.SerialNumber] = e.ID
	}

	for _, ef := range in {
		if _, ok := ids[ef.SerialNumber]; ok {
			logger.DebugContext(ctx, "equipment already exists", "serial_number", ef.SerialNumber)
			continue
		}
		req := &model.CreateEquipmentRequest{
			Name:         ef.Name,
			Type:         ef.Type,
			SerialNumber: ef.SerialNumber,
			IsActive:     ef.IsActive,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("equipment %q: %w", ef.SerialNumber, err)
		}
		created, err := repo.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("create equipment %q: %w", ef.SerialNumber, err)
		}
		ids[created.SerialNumber] = created.ID
	}
	return ids, nil
}

type jobSeed struct {
	fixture   JobFixture
	users     map[string]string
	equipment map[string]string
	today     time.Time
}

func seedJob(ctx context.Context, svcs Services, in jobSeed) (int, error) {
	jf := in.fixture
	req := &model.CreateJobRequest{
		Title:       jf.Title,
		Description: jf.Description,
		ClientName:  jf.ClientName,
		Status:      jf.Status,
		Priority:    jf.Priority,
		CreatedBy:   in.users[jf.CreatedBy],
	}
	if jf.ScheduledInDays != nil {
		d := in.today.AddDate(0, 0, *jf.ScheduledInDays)
		req.ScheduledDate = &d
	}
	if jf.AssignedTo != "" {
		id := in.users[jf.AssignedTo]
		req.AssignedTo = &id
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}
	job, err := svcs.Jobs.Create(ctx, req)
	if err != nil {
		return 0, err
	}

	now := svcs.Now()
	for i, tf := range jf.Tasks {
		insert := model.TaskInsert{
			JobID:       job.ID,
			Title:       tf.Title,
			Description: tf.Description,
			Order:       i + 1,
			Status:      tf.Status,
		}
		if insert.Status == "" {
			insert.Status = model.TaskStatusNotStarted
		}
		if insert.Status == model.TaskStatusCompleted {
			insert.CompletedAt = &now
		}
		for _, rf := range tf.Equipment {
			quantity := model.DefaultQuantity
			if rf.Quantity != nil {
				quantity = *rf.Quantity
			}
			insert.Requirements = append(insert.Requirements, model.RequirementInput{
				EquipmentID: in.equipment[rf.SerialNumber],
				Quantity:    model.QuantityOf(quantity),
				Notes:       rf.Notes,
			})
		}
		if _, err := svcs.Tasks.Create(ctx, insert); err != nil {
			return i, fmt.Errorf("create task %q: %w", tf.Title, err)
		}
	}
	return len(jf.Tasks), nil
}
