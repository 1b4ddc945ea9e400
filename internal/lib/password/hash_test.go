package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testHasher = NewHasher()

func TestHasher_Hash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "regular password",
			password: "password123",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "long password",
			password: "verylongpasswordwithmorethanfiftycharacters-verylongpasswordwithmorethanfiftycharacters",
		},
		{
			name:     "unicode password",
			password: "contraseña-segura",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := testHasher.Hash(tt.password)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(gotHash, "$argon2id$v=19$m=65536,t=1,p=4$"))
			assert.True(t, testHasher.Verify(tt.password, gotHash), "generated hash doesn't work with original password")
		})
	}
}

func TestHasher_Verify(t *testing.T) {
	correctHash, err := testHasher.Hash("correct_password")
	require.NoError(t, err)

	anotherHash, err := testHasher.Hash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{
			name:        "matching password",
			hash:        correctHash,
			password:    "correct_password",
			shouldMatch: true,
		},
		{
			name:        "wrong password",
			hash:        correctHash,
			password:    "wrong_password",
			shouldMatch: false,
		},
		{
			name:        "different hash same password",
			hash:        anotherHash,
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "empty password",
			hash:        correctHash,
			password:    "",
			shouldMatch: false,
		},
		{
			name:        "empty hash",
			hash:        "",
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "garbage hash",
			hash:        "not-a-hash-at-all",
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "unknown algorithm",
			hash:        strings.Replace(correctHash, "argon2id", "argon2i", 1),
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "wrong version",
			hash:        strings.Replace(correctHash, "v=19", "v=16", 1),
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "zero cost parameters",
			hash:        strings.Replace(correctHash, "t=1", "t=0", 1),
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "truncated hash",
			hash:        correctHash[:len(correctHash)/2],
			password:    "correct_password",
			shouldMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.shouldMatch, testHasher.Verify(tt.password, tt.hash))
			})
		})
	}
}

func TestHasher_VerifyMutatedHashBytes(t *testing.T) {
	const plain = "mutation_target"
	digest, err := testHasher.Hash(plain)
	require.NoError(t, err)

	// Меняем каждый символ соли и хеша и убеждаемся, что проверка не проходит.
	saltStart := strings.LastIndex(digest[:strings.LastIndex(digest, "$")], "$") + 1
	for i := saltStart; i < len(digest); i++ {
		if digest[i] == '$' {
			continue
		}
		mutated := []byte(digest)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		assert.False(t, testHasher.Verify(plain, string(mutated)), "mutation at %d must not verify", i)
	}
}

func TestHasher_VerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy_password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, testHasher.Verify("legacy_password", string(legacy)))
	assert.False(t, testHasher.Verify("other_password", string(legacy)))
}

func TestHasher_NeedsRehash(t *testing.T) {
	weak := &Hasher{Params: Params{Memory: 16 * 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}}
	weakHash, err := weak.Hash("password")
	require.NoError(t, err)

	current := NewHasher()
	currentHash, err := current.Hash("password")
	require.NoError(t, err)

	legacy, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, current.NeedsRehash(weakHash))
	assert.True(t, current.NeedsRehash(string(legacy)))
	assert.True(t, current.NeedsRehash("garbage"))
	assert.False(t, current.NeedsRehash(currentHash))

	// Хеш со слабыми параметрами продолжает проверяться после повышения стоимости.
	assert.True(t, current.Verify("password", weakHash))
}

func TestHasher_SamePasswordProducesDifferentHashes(t *testing.T) {
	hash1, err := testHasher.Hash("password1")
	require.NoError(t, err)

	hash2, err := testHasher.Hash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "salt must differ between calls")
}
