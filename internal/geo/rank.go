// Package geo ranks restaurants by great-circle distance from an
// origin coordinate and provides the list filters used by the search
// screen.
package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Distance returns the great-circle distance between two coordinates
// in kilometers. Sub-kilometer values keep full float precision.
func Distance(a, b models.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180)
	dLon := (b.Long - a.Long) * (math.Pi / 180)
	lat1 := a.Lat * (math.Pi / 180)
	lat2 := b.Lat * (math.Pi / 180)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Rank filters candidates to those within radiusKm of origin and
// returns them sorted ascending by distance, ties broken by id. The
// returned records are copies with DistanceKm attached; the input
// slice is never mutated. A radius <= 0 yields an empty result.
func Rank(origin models.Coordinate, radiusKm float64, candidates []models.RestaurantSummary) []models.RestaurantSummary {
	if radiusKm <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]models.RestaurantSummary, 0, len(candidates))
	for _, c := range candidates {
		d := Distance(origin, c.Coordinate)
		if d > radiusKm {
			continue
		}
		c.DistanceKm = d
		ranked = append(ranked, c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// FilterByTitle returns the subsequence of list whose titles contain
// query, case-insensitively. A query that trims to empty returns the
// list unchanged, matching the search box reset behavior.
func FilterByTitle(query string, list []models.RestaurantSummary) []models.RestaurantSummary {
	q := strings.TrimSpace(query)
	if q == "" {
		return list
	}

	q = strings.ToLower(q)
	var filtered []models.RestaurantSummary
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Title), q) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
