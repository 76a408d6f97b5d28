package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	UserIDPrefix = "ID"
	userIDBytes  = 3 // 6 hex characters
	pinMin       = 1000
	pinSpan      = 9000
)

// CredentialGenerator issues the identifier and PIN of a new account.
type CredentialGenerator interface {
	UserID() (string, error)
	PIN() string
}

// RandomCredentials draws user IDs from crypto/rand and PINs from math/rand.
type RandomCredentials struct{}

func (RandomCredentials) UserID() (string, error) { return GenerateUserID() }
func (RandomCredentials) PIN() string             { return GeneratePIN() }

// GenerateUserID returns "ID" followed by 6 uppercase hex characters.
// Uniqueness is not guaranteed; the account store has the final word.
func GenerateUserID() (string, error) {
	b := make([]byte, userIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return UserIDPrefix + strings.ToUpper(hex.EncodeToString(b)), nil
}

// GeneratePIN returns a 4-digit PIN in [1000, 9999].
func GeneratePIN() string {
	return strconv.Itoa(pinMin + mrand.Intn(pinSpan))
}

func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

var burnHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)
	return h
})

// BurnPINCheck spends the same work as CheckPIN against a throwaway hash so
// an unknown userID costs as much as a wrong PIN.
func BurnPINCheck(pin string) {
	_ = bcrypt.CompareHashAndPassword(burnHash(), []byte(pin))
}
