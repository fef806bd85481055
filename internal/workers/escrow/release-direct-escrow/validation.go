// internal/workers/escrow/release-direct-escrow/validation.go
package releasedirectescrow

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"escrowId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":    {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken": {Type: "string"},
			"escrowId":    {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
		},
	}
}
