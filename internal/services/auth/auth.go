// Package auth содержит бизнес-логику учётных записей: регистрацию с выдачей
// лицензии, вход с блокировкой после неудачных попыток, проверку токенов
// и вычисление состояния лицензии.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/insurtech-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/password"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/license"
	"github.com/magabrotheeeer/insurtech-admin/internal/metrics"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/rabbitmq"
	"github.com/magabrotheeeer/insurtech-admin/internal/storage"
)

// Ошибки сервиса. Конфликты регистрации совпадают с ошибками хранилища,
// чтобы гонка на вставке давала ту же ошибку, что и предварительная проверка.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInactive           = errors.New("user inactive")
	ErrBlocked            = errors.New("user blocked")
	ErrInvalidLicenseKey  = errors.New("invalid license key")
	ErrUsernameTaken      = storage.ErrUsernameTaken
	ErrEmailTaken         = storage.ErrEmailTaken
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	InitLicenseStart(ctx context.Context, userUID string, start time.Time) (bool, error)
	UpdateLicense(ctx context.Context, userUID string, grant models.LicenseGrant) error
	BlockUser(ctx context.Context, userUID string, at time.Time) error
	UnblockUser(ctx context.Context, userUID string) error
	UpdatePasswordHash(ctx context.Context, userUID, hash string) error
}

// AttemptCounter считает неудачные попытки входа в скользящем окне.
type AttemptCounter interface {
	IncrLoginAttempts(ctx context.Context, username string, window time.Duration) (int64, error)
	ResetLoginAttempts(ctx context.Context, username string) error
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	NeedsRehash(digest string) bool
}

// Settings параметры выдачи лицензий и защиты входа.
type Settings struct {
	MasterLicenseKey   string
	TrialPeriod        time.Duration
	FullPeriod         time.Duration
	MaxLoginAttempts   int
	LoginAttemptWindow time.Duration
	LockoutPeriod      time.Duration
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithAttemptCounter включает блокировку после MaxLoginAttempts неудачных входов.
func WithAttemptCounter(c AttemptCounter) Option {
	return func(s *AuthService) { s.attempts = c }
}

// WithPublisher задаёт издателя событий учётных записей.
func WithPublisher(p rabbitmq.Publisher) Option {
	return func(s *AuthService) { s.publisher = p }
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AuthService) { s.metrics = m }
}

// WithHasher задаёт хешер паролей.
func WithHasher(h PasswordHasher) Option {
	return func(s *AuthService) { s.hasher = h }
}

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(s *AuthService) { s.log = log }
}

// WithClock задаёт источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// AuthService отвечает за регистрацию, вход, проверку JWT и лицензии.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	settings  Settings
	evaluator *license.Evaluator

	attempts  AttemptCounter
	publisher rabbitmq.Publisher
	metrics   *metrics.Metrics
	hasher    PasswordHasher
	log       *slog.Logger
	now       func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, settings Settings, opts ...Option) *AuthService {
	if settings.TrialPeriod <= 0 {
		settings.TrialPeriod = license.TrialPeriod
	}
	if settings.FullPeriod <= 0 {
		settings.FullPeriod = license.FullPeriod
	}
	s := &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		settings:  settings,
		evaluator: license.NewEvaluator(settings.TrialPeriod, settings.LockoutPeriod),
		publisher: rabbitmq.NopPublisher{},
		hasher:    password.NewHasher(),
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) clock() time.Time {
	return s.now().UTC()
}

// masterKeyMatches сравнивает ключ с мастер-ключом. Пустой мастер-ключ
// не совпадает ни с чем.
func (s *AuthService) masterKeyMatches(key string) bool {
	master := s.settings.MasterLicenseKey
	if master == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(master)) == 1
}

func (s *AuthService) fullGrant(now time.Time) models.LicenseGrant {
	return models.LicenseGrant{IsTrial: false, Start: now, End: now.Add(s.settings.FullPeriod)}
}

// Register создает пользователя. Совпадение masterKey с мастер-ключом даёт
// полную лицензию, иначе выдаётся пробная.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword, masterKey string) (*models.User, error) {
	const op = "auth.Register"
	user, err := s.register(ctx, username, email, rawPassword, masterKey)
	switch {
	case err == nil:
		s.metrics.RegistrationResult(metrics.ResultSuccess)
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		s.metrics.RegistrationResult(metrics.ResultConflict)
	default:
		s.metrics.RegistrationResult(metrics.ResultError)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *AuthService) register(ctx context.Context, username, email, rawPassword, masterKey string) (*models.User, error) {
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	grant := models.LicenseGrant{IsTrial: true, Start: now, End: now.Add(s.settings.TrialPeriod)}
	if s.masterKeyMatches(masterKey) {
		grant = s.fullGrant(now)
	}

	created, err := s.users.RegisterUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
		IsTrial:      grant.IsTrial,
		LicenseStart: &grant.Start,
		LicenseEnd:   &grant.End,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rabbitmq.RoutingUserRegistered, rabbitmq.UserRegistered{
		UserUID:    created.UUID,
		Username:   created.Username,
		Email:      created.Email,
		IsTrial:    created.IsTrial,
		LicenseEnd: created.LicenseEnd,
		OccurredAt: now,
	})
	return created, nil
}

// Login проверяет учётные данные и выпускает JWT со снимком лицензии.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"
	token, result, err := s.login(ctx, username, rawPassword)
	s.metrics.LoginResult(result)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

func (s *AuthService) login(ctx context.Context, username, rawPassword string) (string, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", metrics.ResultInvalid, ErrInvalidCredentials
		}
		return "", metrics.ResultError, err
	}

	// Блокировка сообщается только тому, кто знает пароль.
	now := s.clock()
	locked := user.IsBlocked && !s.evaluator.LockoutExpired(user, now)
	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		if !locked {
			s.registerFailure(ctx, user, now)
		}
		return "", metrics.ResultInvalid, ErrInvalidCredentials
	}
	if locked {
		return "", metrics.ResultBlocked, ErrBlocked
	}
	if user.IsBlocked {
		if err := s.users.UnblockUser(ctx, user.UUID); err != nil {
			return "", metrics.ResultError, err
		}
		user.IsBlocked = false
		user.BlockedAt = nil
	}
	if !user.IsActive {
		return "", metrics.ResultInactive, ErrInactive
	}

	if s.attempts != nil {
		if err := s.attempts.ResetLoginAttempts(ctx, user.Username); err != nil {
			s.log.Warn("failed to reset login attempts", slog.String("username", user.Username), sl.Err(err))
		}
	}
	s.upgradeHash(ctx, user, rawPassword)

	token, err := s.jwtMaker.GenerateToken(jwt.NewClaims(user.Username, user.IsActive, user.IsTrial, user.LicenseEnd))
	if err != nil {
		return "", metrics.ResultError, err
	}
	return token, metrics.ResultSuccess, nil
}

// registerFailure учитывает неудачную попытку и блокирует учётную запись
// при достижении MaxLoginAttempts.
func (s *AuthService) registerFailure(ctx context.Context, user *models.User, now time.Time) {
	if s.attempts == nil || s.settings.MaxLoginAttempts <= 0 {
		return
	}
	log := s.log.With(slog.String("username", user.Username))

	n, err := s.attempts.IncrLoginAttempts(ctx, user.Username, s.settings.LoginAttemptWindow)
	if err != nil {
		log.Warn("failed to count login attempt", sl.Err(err))
		return
	}
	if n < int64(s.settings.MaxLoginAttempts) {
		return
	}
	if err := s.users.BlockUser(ctx, user.UUID, now); err != nil {
		log.Error("failed to block user", sl.Err(err))
		return
	}
	if err := s.attempts.ResetLoginAttempts(ctx, user.Username); err != nil {
		log.Warn("failed to reset login attempts", sl.Err(err))
	}
	log.Info("user blocked after failed login attempts", slog.Int64("attempts", n))
}

func (s *AuthService) upgradeHash(ctx context.Context, user *models.User, rawPassword string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}
	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		s.log.Warn("failed to rehash password", sl.Err(err))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.UUID, hashed); err != nil {
		s.log.Warn("failed to store rehashed password", sl.Err(err))
		return
	}
	user.PasswordHash = hashed
}

// Authenticate проверяет токен и возвращает пользователя из хранилища.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Username())
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// AuthenticateActive как Authenticate, но отклоняет неактивные учётные записи.
func (s *AuthService) AuthenticateActive(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("auth.AuthenticateActive: %w", ErrInactive)
	}
	return user, nil
}

// LicenseStatus вычисляет состояние лицензии. Для пробной лицензии без даты
// начала дата начала однократно фиксируется текущим моментом, истёкшая
// блокировка снимается в хранилище.
func (s *AuthService) LicenseStatus(ctx context.Context, user *models.User) (license.Status, error) {
	const op = "auth.LicenseStatus"
	now := s.clock()

	if user.IsBlocked && s.evaluator.LockoutExpired(user, now) {
		if err := s.users.UnblockUser(ctx, user.UUID); err != nil {
			s.log.Warn("failed to clear expired lockout", slog.String("username", user.Username), sl.Err(err))
		} else {
			user.IsBlocked = false
			user.BlockedAt = nil
		}
	}

	if user.IsActive && user.IsTrial && user.LicenseStart == nil {
		written, err := s.users.InitLicenseStart(ctx, user.UUID, now)
		if err != nil {
			return license.Status{}, fmt.Errorf("%s: %w", op, err)
		}
		if written {
			start := now
			user.LicenseStart = &start
		} else {
			fresh, err := s.users.GetUser(ctx, user.UUID)
			if err != nil {
				return license.Status{}, fmt.Errorf("%s: %w", op, err)
			}
			*user = *fresh
		}
	}
	return s.evaluator.Evaluate(user, now), nil
}

// ActivateLicense выдаёт полную лицензию по мастер-ключу и снимает блокировку.
func (s *AuthService) ActivateLicense(ctx context.Context, user *models.User, key string) (license.Status, error) {
	const op = "auth.ActivateLicense"
	if !s.masterKeyMatches(key) {
		s.metrics.LicenseActivationResult(metrics.ResultInvalid)
		return license.Status{}, fmt.Errorf("%s: %w", op, ErrInvalidLicenseKey)
	}

	now := s.clock()
	grant := s.fullGrant(now)
	if err := s.users.UpdateLicense(ctx, user.UUID, grant); err != nil {
		s.metrics.LicenseActivationResult(metrics.ResultError)
		return license.Status{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.LicenseActivationResult(metrics.ResultSuccess)

	user.IsTrial = false
	user.LicenseStart = &grant.Start
	user.LicenseEnd = &grant.End
	user.IsBlocked = false
	user.BlockedAt = nil

	s.publish(ctx, rabbitmq.RoutingLicenseActivated, rabbitmq.LicenseActivated{
		UserUID:    user.UUID,
		Username:   user.Username,
		LicenseEnd: grant.End,
		OccurredAt: now,
	})
	return s.evaluator.Evaluate(user, now), nil
}

// publish отправляет событие; ошибка брокера не прерывает операцию.
func (s *AuthService) publish(ctx context.Context, routingKey string, event any) {
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
