package search

import (
	"fmt"

	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/ranking"
)

func buildOpenGigsQuery(q ranking.Query) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": string(models.GigOpen)},
		},
	}
	mustNotClauses := []interface{}{}

	if q.ExcludeID != "" {
		mustNotClauses = append(mustNotClauses, map[string]interface{}{
			"term": map[string]interface{}{"poster_id": q.ExcludeID},
		})
	}
	if geo := geoDistanceClause(q); geo != nil {
		filterClauses = append(filterClauses, geo)
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   filterClauses,
				"must_not": mustNotClauses,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		},
	}
}

func buildTalentQuery(q ranking.Query) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"role": string(models.RoleStudent)},
		},
	}
	mustNotClauses := []interface{}{}

	if q.ExcludeID != "" {
		mustNotClauses = append(mustNotClauses, map[string]interface{}{
			"ids": map[string]interface{}{"values": []string{q.ExcludeID}},
		})
	}
	if geo := geoDistanceClause(q); geo != nil {
		filterClauses = append(filterClauses, geo)
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   filterClauses,
				"must_not": mustNotClauses,
			},
		},
	}
	if q.Near != nil {
		body["sort"] = []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": map[string]interface{}{"lat": q.Near.Lat, "lon": q.Near.Lng},
					"order":    "asc",
					"unit":     "km",
				},
			},
		}
	}
	return body
}

func geoDistanceClause(q ranking.Query) map[string]interface{} {
	if q.Near == nil || q.RadiusKm <= 0 {
		return nil
	}
	return map[string]interface{}{
		"geo_distance": map[string]interface{}{
			"distance": fmt.Sprintf("%gkm", q.RadiusKm),
			"location": map[string]interface{}{"lat": q.Near.Lat, "lon": q.Near.Lng},
		},
	}
}
