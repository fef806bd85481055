// internal/workers/escrow/accept-application/validation.go
package acceptapplication

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"applicationId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"callerId":      {Type: "string", MaxLength: validation.IntPtr(64)},
			"accessToken":   {Type: "string"},
			"applicationId": {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
		},
	}
}
