// internal/workers/escrow/lock-direct-escrow/validation.go
package lockdirectescrow

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	id := validation.Property{Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"gigId", "workerId", "orderId", "paymentId", "signature"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":    {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken": {Type: "string"},
			"gigId":       id,
			"workerId":    id,
			"orderId":     id,
			"paymentId":   id,
			"signature":   {Type: "string", Pattern: validation.StringPtr(`^[0-9a-fA-F]{64}$`)},
			"amount":      {Type: "decimal", Minimum: validation.FloatPtr(0.01), Nullable: true},
		},
	}
}
