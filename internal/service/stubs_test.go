package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"portfolio/internal/blob"
	"portfolio/internal/models"
	"portfolio/internal/notify"
	"portfolio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUserRepo is an in-memory UserRepository with the same read/write
// semantics as the GORM implementation.
type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User

	createErr error
	creates   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]models.User{}}
}

func (r *memUserRepo) public(u models.User) *models.User {
	u.Password = ""
	return &u
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return r.public(u), nil
}

func (r *memUserRepo) GetByIDWithSecret(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return &u, nil
}

func (r *memUserRepo) find(match func(models.User) bool) *models.User {
	for _, u := range r.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.GetByEmailWithSecret(ctx, email)
	if u != nil {
		u.Password = ""
	}
	return u, err
}

func (r *memUserRepo) GetByEmailWithSecret(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = models.NormalizeEmail(email)
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r *memUserRepo) GetByResetTokenHash(_ context.Context, hash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(func(u models.User) bool {
		return u.ResetPasswordTokenHash != nil && *u.ResetPasswordTokenHash == hash
	})
	if u != nil {
		u.Password = ""
	}
	return u, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	user.Email = models.NormalizeEmail(user.Email)
	if r.find(func(u models.User) bool { return u.Email == user.Email }) != nil {
		return models.NewConflictError("User already exists")
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id uint, update models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	u, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, models.NewNotFoundError("User", id)
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.Resume != nil {
		u.Resume = *update.Resume
	}
	r.users[id] = u
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) mutate(id uint, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uint, digest string) error {
	return r.mutate(id, func(u *models.User) {
		u.Password = digest
		u.ResetPasswordTokenHash = nil
		u.ResetPasswordExpiresAt = nil
	})
}

func (r *memUserRepo) SetResetToken(_ context.Context, id uint, hash string, expiresAt time.Time) error {
	return r.mutate(id, func(u *models.User) {
		u.ResetPasswordTokenHash = &hash
		u.ResetPasswordExpiresAt = &expiresAt
	})
}

func (r *memUserRepo) ClearResetToken(_ context.Context, id uint) error {
	return r.mutate(id, func(u *models.User) {
		u.ResetPasswordTokenHash = nil
		u.ResetPasswordExpiresAt = nil
	})
}

func (r *memUserRepo) ConsumeResetToken(_ context.Context, id uint, hash, digest string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetPasswordTokenHash == nil || *u.ResetPasswordTokenHash != hash ||
		u.ResetPasswordExpiresAt == nil || !u.ResetPasswordExpiresAt.After(now) {
		return false, nil
	}
	u.Password = digest
	u.ResetPasswordTokenHash = nil
	u.ResetPasswordExpiresAt = nil
	r.users[id] = u
	return true, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeStore records uploads and destroys.
type fakeStore struct {
	mu        sync.Mutex
	uploads   []string
	destroyed []string
	uploadErr error
	failAfter int // successful uploads before uploadErr applies
}

func (s *fakeStore) Upload(_ context.Context, folder string, f blob.File) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil && len(s.uploads) >= s.failAfter {
		return models.Asset{}, s.uploadErr
	}
	id := fmt.Sprintf("%s/%d-%s", folder, len(s.uploads)+1, f.Name)
	s.uploads = append(s.uploads, id)
	return models.Asset{PublicID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (s *fakeStore) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

// fakeNotifier captures queued messages.
type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (n *fakeNotifier) Enqueue(msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *fakeNotifier) last() notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return notify.Message{}
	}
	return n.msgs[len(n.msgs)-1]
}

type skillRepoStub struct {
	listFn    func(context.Context, int, int) (*repository.Page[models.Skill], error)
	getByIDFn func(context.Context, uint) (*models.Skill, error)
	createFn  func(context.Context, *models.Skill) error
	updateFn  func(context.Context, uint, models.SkillUpdate) (*models.Skill, error)
	deleteFn  func(context.Context, uint) error
}

func (s *skillRepoStub) List(ctx context.Context, offset, limit int) (*repository.Page[models.Skill], error) {
	return s.listFn(ctx, offset, limit)
}

func (s *skillRepoStub) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	return s.getByIDFn(ctx, id)
}

func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	return s.createFn(ctx, skill)
}

func (s *skillRepoStub) Update(ctx context.Context, id uint, u models.SkillUpdate) (*models.Skill, error) {
	return s.updateFn(ctx, id, u)
}

func (s *skillRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type projectRepoStub struct {
	listFn    func(context.Context, int, int) (*repository.Page[models.Project], error)
	getByIDFn func(context.Context, uint) (*models.Project, error)
	createFn  func(context.Context, *models.Project) error
	updateFn  func(context.Context, uint, models.ProjectUpdate) (*models.Project, error)
	deleteFn  func(context.Context, uint) error
}

func (s *projectRepoStub) List(ctx context.Context, offset, limit int) (*repository.Page[models.Project], error) {
	return s.listFn(ctx, offset, limit)
}

func (s *projectRepoStub) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.getByIDFn(ctx, id)
}

func (s *projectRepoStub) Create(ctx context.Context, p *models.Project) error {
	return s.createFn(ctx, p)
}

func (s *projectRepoStub) Update(ctx context.Context, id uint, u models.ProjectUpdate) (*models.Project, error) {
	return s.updateFn(ctx, id, u)
}

func (s *projectRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type messageRepoStub struct {
	listFn      func(context.Context, int, int) (*repository.Page[models.Message], error)
	getByIDFn   func(context.Context, uint) (*models.Message, error)
	createFn    func(context.Context, *models.Message) error
	markReadFn  func(context.Context, uint) (*models.Message, error)
	deleteFn    func(context.Context, uint) error
	deleteAllFn func(context.Context) (int64, error)
}

func (s *messageRepoStub) List(ctx context.Context, offset, limit int) (*repository.Page[models.Message], error) {
	return s.listFn(ctx, offset, limit)
}

func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}

func (s *messageRepoStub) MarkRead(ctx context.Context, id uint) (*models.Message, error) {
	return s.markReadFn(ctx, id)
}

func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func (s *messageRepoStub) DeleteAll(ctx context.Context) (int64, error) {
	return s.deleteAllFn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngFile(t *testing.T, name string) *blob.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &blob.File{Name: name, ContentType: "image/png", Data: buf.Bytes()}
}

func pdfFile(name string) *blob.File {
	return &blob.File{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
