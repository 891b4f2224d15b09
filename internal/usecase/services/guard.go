package services

import (
	"strings"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
)

// AccessGuard answers authorize(account, actingUser, suppliedPin) for the
// mutating operations. Each check returns a domain error the caller can map
// directly; a nil return means the check passed.
type AccessGuard struct {
	pins PinVerifier
}

func NewAccessGuard(pins PinVerifier) *AccessGuard {
	return &AccessGuard{pins: pins}
}

func (g *AccessGuard) RequireActive(account domain.Account) error {
	if !account.Active {
		return domain.ErrAccountInactive
	}
	return nil
}

// RequireOwner fails unless the acting user owns the account. allowAdmin
// extends the check with the elevated capability (deposits and transfers on
// behalf of customers); withdrawals pass false.
func (g *AccessGuard) RequireOwner(account domain.Account, identity domain.Identity, allowAdmin bool) error {
	if account.UserID == identity.UserID {
		return nil
	}
	if allowAdmin && identity.Admin {
		return nil
	}
	return domain.ErrAccessDenied
}

// RequirePin compares the supplied PIN against the stored hash. An account
// with no PIN set rejects every PIN-gated operation.
func (g *AccessGuard) RequirePin(account domain.Account, suppliedPin string) error {
	pin := strings.TrimSpace(suppliedPin)
	if pin == "" || account.TransactionPinHash == "" {
		return domain.ErrInvalidPin
	}
	return g.pins.Verify(pin, account.TransactionPinHash)
}
