// internal/workers/wallet/settle-transaction/validation.go
package settletransaction

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"transactionId", "status"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":      {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken":   {Type: "string"},
			"transactionId": {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
			"status":        {Type: "string", Enum: []string{"COMPLETED", "FAILED"}},
		},
	}
}
