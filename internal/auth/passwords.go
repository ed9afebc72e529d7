package auth

import (
	"fmt"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"rttrailserver/internal/domain"
)

// bcrypt cost 13 keeps hash computation around half a second, which is the
// intended work factor for login attempts.
const bcryptCost = 13

// dummyHash is a fixed bcrypt hash compared against when the looked-up email
// does not exist, so that unknown and known emails take a similar time to
// reject. The preimage is not a usable password.
const dummyHash = "$2a$13$gGJzNcCyYrSiTVV2tT1EMuZUcurLGUf3nWeVAF53Jl1t8VSK0kDHm"

const minPasswordEntropyBits = 50

func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func VerifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummyPassword burns the time a real password verification would have
// taken. Callers use it when the account does not exist to keep rejection
// timing flat.
func VerifyDummyPassword(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}

// CheckPasswordStrength rejects passwords that are too short or too guessable.
func CheckPasswordStrength(plaintext string) error {
	if len(plaintext) < 8 {
		return domain.NewValidationError(map[string]string{"password": "must be at least 8 characters long"})
	}
	if err := passwordvalidator.Validate(plaintext, minPasswordEntropyBits); err != nil {
		return domain.NewValidationError(map[string]string{"password": err.Error()})
	}
	return nil
}
