package services

import (
	"fmt"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// PinVerifier is the injected one-way hashing capability. The engine never
// stores or logs a plaintext PIN beyond the single comparison call.
type PinVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) error
}

type BcryptPinVerifier struct{}

func NewBcryptPinVerifier() BcryptPinVerifier {
	return BcryptPinVerifier{}
}

func (BcryptPinVerifier) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash transaction pin: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPinVerifier) Verify(plain, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return domain.ErrInvalidPin
	}
	return nil
}
