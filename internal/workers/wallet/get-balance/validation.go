// internal/workers/wallet/get-balance/validation.go
package getbalance

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":    {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken": {Type: "string"},
			"userId":      {Type: "string", MaxLength: validation.IntPtr(64)},
		},
	}
}
