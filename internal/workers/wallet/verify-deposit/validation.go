// internal/workers/wallet/verify-deposit/validation.go
package verifydeposit

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"orderId", "paymentId", "signature"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":    {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken": {Type: "string"},
			"orderId":     {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
			"paymentId":   {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
			"signature":   {Type: "string", Pattern: validation.StringPtr(`^[0-9a-fA-F]{64}$`)},
			"amount":      {Type: "decimal", Nullable: true},
		},
	}
}
