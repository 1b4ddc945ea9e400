// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Hasher.Hash создает argon2id-хеш пароля в формате PHC: алгоритм, параметры стоимости,
// соль и сам хеш хранятся в одной строке, поэтому для проверки не нужно ничего,
// кроме самой строки. Hasher.Verify сравнивает пароль с таким хешем, а также умеет
// проверять унаследованные bcrypt-хеши.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const algorithm = "argon2id"

// ErrMalformedHash возвращается при разборе строки, не являющейся argon2id-хешем.
var ErrMalformedHash = errors.New("malformed password hash")

// Params описывает параметры стоимости argon2id.
type Params struct {
	Memory  uint32 // Память в KiB
	Time    uint32 // Количество проходов
	Threads uint8  // Степень параллелизма
	SaltLen uint32 // Длина соли в байтах
	KeyLen  uint32 // Длина итогового ключа в байтах
}

// DefaultParams текущие параметры стоимости. Повышение значений не делает
// недействительными уже сохраненные хеши: их параметры читаются из самой строки.
var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Hasher хеширует пароли с заданными параметрами.
type Hasher struct {
	Params Params
}

// NewHasher создает Hasher с параметрами по умолчанию.
func NewHasher() *Hasher {
	return &Hasher{Params: DefaultParams}
}

// Hash принимает пароль пользователя и возвращает его argon2id-хеш.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	salt := make([]byte, h.Params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	key := argon2.IDKey([]byte(password), salt, h.Params.Time, h.Params.Memory, h.Params.Threads, h.Params.KeyLen)
	return encode(h.Params, salt, key), nil
}

// Verify сравнивает пароль с хешем. Возвращает false при несовпадении
// и при любом повреждении хеша.
func (h *Hasher) Verify(password, digest string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	p, salt, key, err := decode(digest)
	if err != nil {
		return false
	}
	other := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(key, other) == 1
}

// NeedsRehash сообщает, что хеш создан другим алгоритмом или с более слабыми
// параметрами, чем текущие, и его стоит пересчитать при ближайшем входе.
func (h *Hasher) NeedsRehash(digest string) bool {
	if isBcrypt(digest) {
		return true
	}
	p, _, _, err := decode(digest)
	if err != nil {
		return true
	}
	return p.Memory < h.Params.Memory || p.Time < h.Params.Time ||
		p.Threads < h.Params.Threads || p.KeyLen < h.Params.KeyLen
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// decode разбирает строку вида $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func decode(digest string) (Params, []byte, []byte, error) {
	var p Params
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithm {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
