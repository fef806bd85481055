// internal/workers/escrow/confirm-release/models.go
package confirmrelease

import (
	"campus-gig-workers/internal/common/auth"

	"github.com/shopspring/decimal"
)

type Input struct {
	auth.Credentials
	GigID string `json:"gigId"`
}

type Output struct {
	GigID            string `json:"gigId"`
	GigStatus        string `json:"gigStatus"`
	OwnerConfirmed   bool   `json:"ownerConfirmed"`
	StudentConfirmed bool   `json:"studentConfirmed"`
	// Released is true only for the confirmation that paid out.
	Released       bool                `json:"released"`
	WorkerID       string              `json:"workerId,omitempty"`
	CommissionRate decimal.NullDecimal `json:"commissionRate"`
	Commission     decimal.NullDecimal `json:"commission"`
	NetAmount      decimal.NullDecimal `json:"netAmount"`
	PayoutID       string              `json:"payoutTransactionId,omitempty"`
}
