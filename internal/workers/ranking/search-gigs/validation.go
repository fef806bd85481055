// internal/workers/ranking/search-gigs/validation.go
package searchgigs

import "campus-gig-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	location := validation.Property{
		Type: "object",
		Properties: map[string]validation.Property{
			"latitude":  {Type: "number", Minimum: validation.FloatPtr(-90), Maximum: validation.FloatPtr(90), Nullable: true},
			"longitude": {Type: "number", Minimum: validation.FloatPtr(-180), Maximum: validation.FloatPtr(180), Nullable: true},
		},
		Nullable: true,
	}

	return validation.JSONSchema{
		Type:                 "object",
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"userId": {Type: "string", MaxLength: validation.IntPtr(64)},
			"profile": {
				Type: "object",
				Properties: map[string]validation.Property{
					"skills":   {Type: "string", MaxLength: validation.IntPtr(2000)},
					"location": location,
				},
				Nullable: true,
			},
			"candidates": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"id"},
					Properties: map[string]validation.Property{
						"id":       {Type: "string", MinLength: validation.IntPtr(1)},
						"tags":     {Type: "string"},
						"location": location,
					},
				},
				Nullable: true,
			},
			"limit": {Type: "integer", Minimum: validation.FloatPtr(1), Maximum: validation.FloatPtr(100)},
		},
	}
}
