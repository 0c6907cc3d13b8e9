package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abcdefg1")
	assert.NoError(t, err)
	assert.NotEqual(t, "Abcdefg1", hash)
	assert.True(t, CheckPasswordHash("Abcdefg1", hash))
	assert.False(t, CheckPasswordHash("Abcdefg2", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("Abcdefg1")
	assert.NoError(t, err)
	second, err := HashPassword("Abcdefg1")
	assert.NoError(t, err)
	// bcrypt embeds a random salt, so identical inputs must not collide.
	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHashRejectsGarbage(t *testing.T) {
	assert.False(t, CheckPasswordHash("Abcdefg1", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("", ""))
}
