package crypto

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken returns a random URL-safe token of the requested byte length.
func GenerateToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// Hasher abstracts password hashing so the auth core never compares
// plaintext against a stored representation directly.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) bool
}

// BcryptHasher implements Hasher with bcrypt at the default cost.
type BcryptHasher struct{}

// Hash implements Hasher.
func (BcryptHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

// Verify implements Hasher.
func (BcryptHasher) Verify(stored, candidate string) bool {
	return VerifyPassword(stored, candidate)
}
