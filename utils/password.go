package utils

import (
	"authportal/config"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt using the
// configured cost. bcrypt embeds a random per-password salt.
func HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if config.GlobalConfig != nil && config.GlobalConfig.Bcrypt.Cost > 0 {
		cost = config.GlobalConfig.Bcrypt.Cost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a stored
// bcrypt hash. Comparison is constant-time inside bcrypt.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
