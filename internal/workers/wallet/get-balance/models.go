// internal/workers/wallet/get-balance/models.go
package getbalance

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	// UserID defaults to the caller. Only admins may read someone else's wallet.
	UserID string `json:"userId,omitempty"`
}

type Output struct {
	UserID         string          `json:"userId"`
	Credits        decimal.Decimal `json:"credits"`
	Debits         decimal.Decimal `json:"debits"`
	Available      decimal.Decimal `json:"available"`
	LockedInEscrow decimal.Decimal `json:"lockedInEscrow"`
}
