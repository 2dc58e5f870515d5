package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// PINs are an opaque equality check, stored hashed so the record store never
// holds them in clear.
func hashPIN(pin string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ValidationError("pin is too long", nil)
	}
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

func checkPIN(secret, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(pin)) == nil
}
