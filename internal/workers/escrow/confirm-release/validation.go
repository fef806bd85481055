// internal/workers/escrow/confirm-release/validation.go
package confirmrelease

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"gigId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":    {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken": {Type: "string"},
			"gigId":       {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
		},
	}
}
