package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio/internal/auth"
	"portfolio/internal/blob"
	"portfolio/internal/models"
	"portfolio/internal/notify"
	"portfolio/internal/observability"
	"portfolio/internal/repository"
	"portfolio/internal/validation"
)

// Auth event labels.
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventChangePassword = "change_password"
	EventForgotPassword = "forgot_password"
	EventResetPassword  = "reset_password"
)

// Notifier queues an email for background delivery.
type Notifier interface {
	Enqueue(msg notify.Message) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
}

// AuthConfig holds deployment switches for the auth flows.
type AuthConfig struct {
	ResumeRequired     bool
	RevealUnknownEmail bool
	ResetTTL           time.Duration
}

// AuthDeps are the collaborators of AuthService.
type AuthDeps struct {
	Users    repository.UserRepository
	Hasher   auth.PasswordHasher
	Tokens   TokenIssuer
	Resets   *auth.ResetTokens
	Store    blob.Store
	Notifier Notifier
	Mail     *notify.Composer
	Uploads  UploadPolicy
	Logger   *slog.Logger
}

// RegisterInput is a registration request with its uploaded files.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Bio       string
	Linkedin  string
	Github    string
	Twitter   string
	Portfolio string
	Phone     string
	Address   string
	Avatar    *blob.File
	Resume    *blob.File
}

// Session is an issued token for an authenticated user.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.UserSummary
}

// AuthService implements registration, login and password lifecycle.
type AuthService struct {
	deps AuthDeps
	cfg  AuthConfig

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(deps AuthDeps, cfg AuthConfig) *AuthService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Resets == nil {
		deps.Resets = auth.NewResetTokens(cfg.ResetTTL, nil)
	}
	return &AuthService{deps: deps, cfg: cfg}
}

// Register creates the account, uploads its assets and issues a session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (session *Session, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.register")
	defer func() {
		end(err)
		observability.RecordAuthEvent(EventRegister, err)
	}()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Please fill all the fields")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.deps.Uploads.CheckImage("avatar", in.Avatar, true); err != nil {
		return nil, err
	}
	if err := s.deps.Uploads.CheckPDF("resume", in.Resume, s.cfg.ResumeRequired); err != nil {
		return nil, err
	}

	existing, err := s.deps.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	digest, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	batch := newUploadBatch(s.deps.Store, s.deps.Logger)
	avatar, err := batch.upload(ctx, blob.FolderAvatar, in.Avatar)
	if err != nil {
		return nil, err
	}
	resume, err := batch.upload(ctx, blob.FolderResume, in.Resume)
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}

	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  digest,
		Bio:       in.Bio,
		Avatar:    avatar,
		Resume:    resume,
		Linkedin:  in.Linkedin,
		Github:    in.Github,
		Twitter:   in.Twitter,
		Portfolio: in.Portfolio,
		Contact:   models.Contact{Phone: in.Phone, Address: in.Address},
	}
	if err := s.deps.Users.Create(ctx, user); err != nil {
		batch.rollback(ctx)
		return nil, err
	}

	session, err = s.issue(user)
	if err != nil {
		// The account is committed; a retry will see a conflict.
		s.deps.Logger.ErrorContext(ctx, "registered user but could not issue a session",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.notifyBestEffort(ctx, func() (notify.Message, error) {
		return s.deps.Mail.Welcome(user.Email, user.Name)
	})
	return session, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (session *Session, err error) {
	ctx, end := observability.StartSpan(ctx, "auth.login")
	defer func() {
		end(err)
		observability.RecordAuthEvent(EventLogin, err)
	}()

	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError("Please provide email and password")
	}

	user, err := s.deps.Users.GetByEmailWithSecret(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same bcrypt work as a real mismatch.
		s.deps.Hasher.Verify(password, s.dummyHash())
		return nil, models.NewInvalidCredentialsError()
	}
	if !s.deps.Hasher.Verify(password, user.Password) {
		return nil, models.NewInvalidCredentialsError()
	}

	return s.issue(user)
}

// ChangePassword rotates the password of an authenticated user. Existing
// tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (err error) {
	ctx, end := observability.StartSpan(ctx, "auth.change_password")
	defer func() {
		end(err)
		observability.RecordAuthEvent(EventChangePassword, err)
	}()

	if oldPassword == "" || newPassword == "" {
		return models.NewValidationError("Please provide old and new password")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.deps.Users.GetByIDWithSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !s.deps.Hasher.Verify(oldPassword, user.Password) {
		return models.NewInvalidCredentialsError()
	}

	digest, err := s.deps.Hasher.Hash(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.deps.Users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return err
	}

	s.notifyBestEffort(ctx, func() (notify.Message, error) {
		return s.deps.Mail.PasswordChanged(user.Email, user.Name)
	})
	return nil
}

// ForgotPassword stores a reset token hash and queues the reset email.
// Unknown emails succeed silently unless RevealUnknownEmail is set.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (err error) {
	ctx, end := observability.StartSpan(ctx, "auth.forgot_password")
	defer func() {
		end(err)
		observability.RecordAuthEvent(EventForgotPassword, err)
	}()

	email = models.NormalizeEmail(email)
	if email == "" {
		return models.NewValidationError("Please provide an email")
	}

	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		if s.cfg.RevealUnknownEmail {
			return models.NewNotFoundMessageError("User not found with this email")
		}
		return nil
	}

	raw, hash, expiresAt, err := s.deps.Resets.Generate()
	if err != nil {
		return models.NewInternalError(err)
	}
	msg, err := s.deps.Mail.PasswordReset(user.Email, user.Name, raw, s.deps.Resets.TTL())
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.deps.Users.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return err
	}

	if err := s.deps.Notifier.Enqueue(msg); err != nil {
		if clearErr := s.deps.Users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.deps.Logger.ErrorContext(ctx, "failed to clear reset token after enqueue failure",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("error", clearErr.Error()),
			)
		}
		return models.NewNotifierError(err)
	}
	return nil
}

// ResetPassword sets a new password for whoever holds a live token matching
// raw. The token is consumed by a single conditional update.
func (s *AuthService) ResetPassword(ctx context.Context, raw, newPassword string) (err error) {
	ctx, end := observability.StartSpan(ctx, "auth.reset_password")
	defer func() {
		end(err)
		observability.RecordAuthEvent(EventResetPassword, err)
	}()

	if raw == "" {
		return models.NewInvalidTokenError()
	}
	if newPassword == "" {
		return models.NewValidationError("Please provide a new password")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hash := auth.HashResetToken(raw)
	user, err := s.deps.Users.GetByResetTokenHash(ctx, hash)
	if err != nil {
		return err
	}
	now := s.deps.Resets.Now()
	if user == nil || !s.deps.Resets.Validate(raw, user.ResetPasswordTokenHash, user.ResetPasswordExpiresAt, now) {
		return models.NewInvalidTokenError()
	}

	digest, err := s.deps.Hasher.Hash(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	consumed, err := s.deps.Users.ConsumeResetToken(ctx, user.ID, hash, digest, now)
	if err != nil {
		return err
	}
	if !consumed {
		return models.NewInvalidTokenError()
	}

	s.notifyBestEffort(ctx, func() (notify.Message, error) {
		return s.deps.Mail.PasswordChanged(user.Email, user.Name)
	})
	return nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.deps.Tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user.Summary()}, nil
}

func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.deps.Hasher.Hash("portfolio-dummy-password")
	})
	return s.dummyDigest
}

// notifyBestEffort queues a post-commit email. Failures are only logged.
func (s *AuthService) notifyBestEffort(ctx context.Context, compose func() (notify.Message, error)) {
	if s.deps.Notifier == nil || s.deps.Mail == nil {
		return
	}
	msg, err := compose()
	if err == nil {
		err = s.deps.Notifier.Enqueue(msg)
	}
	if err != nil {
		s.deps.Logger.WarnContext(ctx, "failed to queue email",
			slog.String("template", msg.Template),
			slog.String("error", err.Error()),
		)
	}
}
