package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for newly hashed credentials.
const PasswordCost = 12

// bcrypt ignores input beyond 72 bytes; we truncate explicitly so Hash and
// Verify agree on the effective password regardless of library behaviour.
const maxPasswordBytes = 72

// PasswordHasher provides one-way credential hashing and verification.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs a hasher with the default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: PasswordCost}
}

// Hash derives a salted bcrypt digest from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncatePassword(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. Malformed
// digests are treated as a mismatch, never an error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(plaintext)) == nil
}

func truncatePassword(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
