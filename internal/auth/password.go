package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the fixed bcrypt work factor for stored passwords.
const hashCost = 10

// digest normalizes a password to a fixed length before bcrypt. bcrypt
// only reads the first 72 bytes of its input and rejects anything
// longer, while the password policy allows up to 128 characters; the
// SHA-256 pre-digest keeps every policy-valid password hashable with
// all of its characters significant.
func digest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	encoded := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(encoded, sum[:])
	return encoded
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password to a stored hash.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(plain))
}
