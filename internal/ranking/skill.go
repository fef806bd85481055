package ranking

import (
	"math"
	"strings"
)

const (
	exactTagPoints    = 1.0
	descriptionPoints = 0.5
)

// Tokens splits a comma-separated tag string into lower-cased, trimmed, non-empty tokens.
func Tokens(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchScore scores how well userSkills cover a candidate's tags and description, 0-100.
//
// Each user skill earns a full point for an exact tag match, otherwise half a point
// when it appears in the lower-cased description. The sum is divided by the number
// of distinct tags (at least 1), scaled to 100, rounded and clamped.
func MatchScore(userSkills, candidateTags, description string) int {
	skills := Tokens(userSkills)
	if len(skills) == 0 {
		return 0
	}

	tags := make(map[string]struct{})
	for _, t := range Tokens(candidateTags) {
		tags[t] = struct{}{}
	}
	desc := strings.ToLower(description)
	if len(tags) == 0 && strings.TrimSpace(desc) == "" {
		return 0
	}

	var points float64
	for _, skill := range skills {
		if _, ok := tags[skill]; ok {
			points += exactTagPoints
			continue
		}
		if desc != "" && strings.Contains(desc, skill) {
			points += descriptionPoints
		}
	}

	denom := len(tags)
	if denom < 1 {
		denom = 1
	}

	score := int(math.Round(points / float64(denom) * 100))
	return clampInt(score, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
