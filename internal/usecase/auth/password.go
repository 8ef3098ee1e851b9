package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashAlgo     = "pbkdf2_sha256"
	hashRounds   = 120_000
	saltBytes    = 16
	digestLength = sha256.Size
)

// HashPassword derives a salted PBKDF2-SHA256 hash in the form
// pbkdf2_sha256$<rounds>$<salt>$<hex digest>.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	digest := pbkdf2.Key([]byte(password), []byte(salt), hashRounds, digestLength, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s", hashAlgo, hashRounds, salt, hex.EncodeToString(digest)), nil
}

// VerifyPassword checks a password against a stored hash.
// A malformed hash verifies as false, never as an error.
func VerifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, "$", 4)
	if len(parts) != 4 || parts[0] != hashAlgo {
		return false
	}
	rounds, err := strconv.Atoi(parts[1])
	if err != nil || rounds <= 0 {
		return false
	}
	salt, want := parts[2], parts[3]
	digest := pbkdf2.Key([]byte(password), []byte(salt), rounds, digestLength, sha256.New)
	return hmac.Equal([]byte(hex.EncodeToString(digest)), []byte(want))
}
