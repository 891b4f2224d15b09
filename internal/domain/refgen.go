package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	referencePrefix     = "TXN"
	accountNumberPrefix = "ACC"
)

// NewReferenceNumber returns a fresh candidate ledger reference. Uniqueness
// is enforced by the store's unique index, not here; the engine retries with
// a new candidate when the insert reports a collision.
func NewReferenceNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return referencePrefix + strings.ToUpper(raw[:12])
}

// NewAccountNumber returns ACC + yyyymmdd + 4 random digits. Account opening
// rechecks against the unique index and regenerates on collision.
func NewAccountNumber() string {
	datePart := time.Now().UTC().Format("20060102")
	return accountNumberPrefix + datePart + fmt.Sprintf("%04d", rand.Intn(10000))
}
