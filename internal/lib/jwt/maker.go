// Package jwt реализует выпуск и проверку подписанных JWT-токенов доступа.
//
// Maker определяет интерфейс для создания и проверки токенов с subject (username)
// и снимком лицензии пользователя на момент выпуска. MakerImpl реализует его
// на HS256 с секретным ключом, сроком жизни по умолчанию и подменяемыми часами.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL срок жизни токена, если при выпуске он не указан.
const DefaultTTL = 15 * time.Minute

// Ошибки проверки токена.
var (
	ErrMalformed      = errors.New("token is malformed")
	ErrBadSignature   = errors.New("token signature is invalid")
	ErrExpired        = errors.New("token is expired")
	ErrMissingSubject = errors.New("token subject is missing")
)

// Maker описывает интерфейс для выпуска и проверки JWT токенов.
type Maker interface {
	// Issue подписывает claims со сроком жизни ttl (DefaultTTL, если ttl <= 0).
	Issue(claims CustomClaims, ttl time.Duration) (string, error)
	// GenerateToken подписывает claims со сроком жизни из конфигурации.
	GenerateToken(claims CustomClaims) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена при входе.
	now       func() time.Time // Источник текущего времени.
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock задает источник времени, общий для выпуска и проверки.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) *MakerImpl {
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (j *MakerImpl) clock() time.Time {
	return j.now().UTC()
}
