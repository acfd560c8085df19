package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap keeps the tests fast; production uses DefaultParams.
var cheap = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(cheap)

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"), encoded)
	assert.True(t, h.Verify(encoded, "correct horse battery staple"))
	assert.False(t, h.Verify(encoded, "correct horse battery stapl"))
	assert.False(t, h.Verify(encoded, ""))
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := NewHasher(cheap)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same"))
	assert.True(t, h.Verify(b, "same"))
}

func TestHasher_RejectsBadInput(t *testing.T) {
	h := NewHasher(cheap)

	_, err := h.Hash("")
	assert.Error(t, err)

	_, err = h.Hash(strings.Repeat("a", maxPasswordLength+1))
	assert.Error(t, err)

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$aGFzaA",
	} {
		assert.False(t, h.Verify(bad, "password"), bad)
	}
}

func TestHasher_VerifiesHashesMadeWithOtherParams(t *testing.T) {
	old := NewHasher(cheap)
	encoded, err := old.Hash("pa55word")
	require.NoError(t, err)

	stronger := NewHasher(Params{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	assert.True(t, stronger.Verify(encoded, "pa55word"))
	assert.True(t, stronger.NeedsRehash(encoded))
	assert.False(t, old.NeedsRehash(encoded))
	assert.True(t, old.NeedsRehash("garbage"))
}
