package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает данные, хранящиеся в JWT. Subject содержит username.
type CustomClaims struct {
	IsActive             bool             `json:"is_active"`             // Активна ли учетная запись
	IsTrial              bool             `json:"is_trial"`              // Пробная ли лицензия
	LicenseEnd           *jwt.NumericDate `json:"license_end,omitempty"` // Окончание лицензии на момент выпуска
	jwt.RegisteredClaims                  // Стандартные claims (sub, exp, iat)
}

// Username возвращает subject токена.
func (c *CustomClaims) Username() string {
	return c.Subject
}

// NewClaims собирает claims пользователя со снимком лицензии.
func NewClaims(username string, isActive, isTrial bool, licenseEnd *time.Time) CustomClaims {
	c := CustomClaims{IsActive: isActive, IsTrial: isTrial}
	if licenseEnd != nil {
		c.LicenseEnd = jwt.NewNumericDate(*licenseEnd)
	}
	c.Subject = username
	return c
}

// GenerateToken подписывает claims со сроком жизни из конфигурации.
func (j *MakerImpl) GenerateToken(claims CustomClaims) (string, error) {
	return j.Issue(claims, j.tokenTTL)
}

// Issue создает JWT токен, истекающий через ttl от текущего момента,
// и подписывает его секретным ключом.
func (j *MakerImpl) Issue(claims CustomClaims, ttl time.Duration) (string, error) {
	const op = "jwt.Issue"
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := j.clock()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет подпись, срок действия и subject.
//
// Срок действия сравнивается по часам MakerImpl: токен недействителен
// начиная с момента exp включительно.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &CustomClaims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrBadSignature, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w: exp claim is required", op, ErrMalformed)
	}
	if !j.clock().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%s: %w", op, ErrExpired)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}
	return claims, nil
}
