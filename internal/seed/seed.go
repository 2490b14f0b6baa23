// Package seed populates the database with demo portfolio content for
// development. It is not used by the API server.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to the seeded owner account.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumSkills   int
	NumProjects int
	NumMessages int
	OwnerEmail  string
	ShouldClean bool
}

// Summary counts what a Run created.
type Summary struct {
	Owner    bool
	Skills   int
	Projects int
	Messages int
}

var proficiencies = []string{
	models.ProficiencyBeginner,
	models.ProficiencyIntermediate,
	models.ProficiencyAdvanced,
}

var technologies = []string{
	"Go", "Fiber", "Postgres", "Redis", "Docker", "Kubernetes", "React",
	"TypeScript", "Tailwind", "GraphQL", "gRPC", "Terraform", "AWS", "Node.js",
}

// Seeder writes demo rows through the repositories, bumping cache generations.
type Seeder struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	users    repository.UserRepository
	skills   repository.SkillRepository
	projects repository.ProjectRepository
	messages repository.MessageRepository
	hasher   *auth.BcryptHasher
	now      func() time.Time
}

// NewSeeder returns a Seeder with a time-seeded faker.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithSeed(db, time.Now().UnixNano())
}

// NewSeederWithSeed returns a Seeder whose generated content is reproducible.
func NewSeederWithSeed(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		faker:    gofakeit.New(seed),
		users:    repository.NewUserRepository(db),
		skills:   repository.NewSkillRepository(db),
		projects: repository.NewProjectRepository(db),
		messages: repository.NewMessageRepository(db),
		hasher:   auth.NewBcryptHasher(),
		now:      time.Now,
	}
}

// Run seeds according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	summary := &Summary{}
	if opts.OwnerEmail != "" {
		created, err := s.SeedOwner(ctx, opts.OwnerEmail)
		if err != nil {
			return nil, err
		}
		summary.Owner = created
	}

	skills, err := s.SeedSkills(ctx, opts.NumSkills)
	if err != nil {
		return nil, err
	}
	summary.Skills = len(skills)

	projects, err := s.SeedProjects(ctx, opts.NumProjects)
	if err != nil {
		return nil, err
	}
	summary.Projects = len(projects)

	messages, err := s.SeedMessages(ctx, opts.NumMessages)
	if err != nil {
		return nil, err
	}
	summary.Messages = len(messages)

	middleware.Logger.InfoContext(ctx, "Seeding completed",
		"owner", summary.Owner,
		"skills", summary.Skills,
		"projects", summary.Projects,
		"messages", summary.Messages,
	)
	return summary, nil
}

// ClearAll removes all portfolio content and accounts.
func (s *Seeder) ClearAll(ctx context.Context) error {
	global := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []any{&models.Message{}, &models.Project{}, &models.Skill{}, &models.User{}} {
		if err := global.Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", m, err)
		}
	}
	cache.BumpGeneration(ctx, cache.Skills)
	cache.BumpGeneration(ctx, cache.Projects)
	middleware.Logger.InfoContext(ctx, "Cleared existing content")
	return nil
}

// SeedOwner creates the owner account unless one already uses email.
// It reports whether a user was created.
func (s *Seeder) SeedOwner(ctx context.Context, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	digest, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return false, err
	}
	owner := &models.User{
		Name:     s.faker.Name(),
		Email:    email,
		Password: digest,
		Bio:      s.faker.Sentence(12),
		Github:   "https://github.com/" + s.faker.Username(),
		Linkedin: "https://linkedin.com/in/" + s.faker.Username(),
		Avatar:   s.placeholder("avatar", 300, 300),
	}
	if err := s.users.Create(ctx, owner); err != nil {
		return false, err
	}
	return true, nil
}

// SeedSkills creates n skills.
func (s *Seeder) SeedSkills(ctx context.Context, n int) ([]*models.Skill, error) {
	out := make([]*models.Skill, 0, n)
	for i := 0; i < n; i++ {
		skill := &models.Skill{
			Name:              s.faker.ProgrammingLanguage(),
			Proficiency:       s.faker.RandomString(proficiencies),
			Description:       s.faker.Sentence(10),
			YearsOfExperience: s.faker.Number(0, 12),
			Category:          s.faker.RandomString(models.SkillCategories),
			SkillIcon:         s.placeholder("skill", 128, 128),
		}
		if err := s.skills.Create(ctx, skill); err != nil {
			return out, fmt.Errorf("failed to create skill: %w", err)
		}
		out = append(out, skill)
	}
	return out, nil
}

// SeedProjects creates n projects.
func (s *Seeder) SeedProjects(ctx context.Context, n int) ([]*models.Project, error) {
	out := make([]*models.Project, 0, n)
	for i := 0; i < n; i++ {
		slug := strings.ToLower(strings.ReplaceAll(s.faker.AppName(), " ", "-"))
		project := &models.Project{
			Title:        s.faker.AppName(),
			Description:  s.faker.Paragraph(1, 3, 8, " "),
			LiveLink:     fmt.Sprintf("https://%s.example.com", slug),
			RepoLink:     fmt.Sprintf("https://github.com/%s/%s", s.faker.Username(), slug),
			Technologies: s.pickTechnologies(),
			ProjectIcon:  s.placeholder("project", 400, 300),
		}
		if err := s.projects.Create(ctx, project); err != nil {
			return out, fmt.Errorf("failed to create project: %w", err)
		}
		out = append(out, project)
	}
	return out, nil
}

// SeedMessages creates n contact messages spread over the last 30 days.
func (s *Seeder) SeedMessages(ctx context.Context, n int) ([]*models.Message, error) {
	out := make([]*models.Message, 0, n)
	now := s.now()
	for i := 0; i < n; i++ {
		msg := &models.Message{
			Sender:      s.faker.Name(),
			SenderEmail: models.NormalizeEmail(s.faker.Email()),
			Message:     s.faker.Paragraph(1, 2, 10, " "),
			IsRead:      s.faker.Bool(),
			Timestamp:   s.faker.DateRange(now.AddDate(0, 0, -30), now),
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return out, fmt.Errorf("failed to create message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *Seeder) pickTechnologies() models.StringList {
	count := s.faker.Number(2, 5)
	seen := make(map[string]bool, count)
	out := make(models.StringList, 0, count)
	for len(out) < count {
		tech := s.faker.RandomString(technologies)
		if seen[tech] {
			continue
		}
		seen[tech] = true
		out = append(out, tech)
	}
	return out
}

// placeholder points at a remote image. The public id lives outside the
// blob store namespaces, so destroying it later is a harmless miss.
func (s *Seeder) placeholder(kind string, w, h int) models.Asset {
	id := s.faker.UUID()
	return models.Asset{
		PublicID: fmt.Sprintf("seed/%s/%s", kind, id),
		URL:      fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", id, w, h),
	}
}
