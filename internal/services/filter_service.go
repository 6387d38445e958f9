package services

import (
	"strings"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/internal/utils"
)

// FilterParams is the explicit per-request filter state. Zero values mean
// "predicate inactive"; active predicates AND together and composition is
// order-independent.
type FilterParams struct {
	// Query matches case-insensitively against description, reporter id
	// and reporter display name; any hit includes the row.
	Query string

	// Date bounds are inclusive; a nil bound is open on that side. Rows
	// without a created_at are excluded whenever either bound is set.
	DateStart *time.Time
	DateEnd   *time.Time

	// Category is a keyword matched case-insensitively against the
	// description.
	Category string

	// Origin enables the radius predicate; nil skips it entirely (a
	// failed location fetch degrades to no radius filtering).
	Origin   *models.Location
	RadiusKM float64
}

// FilterIncidents applies the active predicates over an already-fetched
// working set. Pure; the input slice is not modified.
func FilterIncidents(views []*models.IncidentView, params FilterParams) []*models.IncidentView {
	out := make([]*models.IncidentView, 0, len(views))
	for _, view := range views {
		if matchesFilters(view, params) {
			out = append(out, view)
		}
	}
	return out
}

func matchesFilters(view *models.IncidentView, params FilterParams) bool {
	return matchesQuery(view, params.Query) &&
		matchesDateRange(view, params.DateStart, params.DateEnd) &&
		matchesCategory(view, params.Category) &&
		matchesRadius(view, params.Origin, params.RadiusKM)
}

func matchesQuery(view *models.IncidentView, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(view.Description), q) ||
		strings.Contains(strings.ToLower(view.ReporterID), q) ||
		strings.Contains(strings.ToLower(view.Reporter), q)
}

func matchesDateRange(view *models.IncidentView, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if view.CreatedAt.IsZero() {
		return false
	}
	if start != nil && view.CreatedAt.Before(*start) {
		return false
	}
	if end != nil && view.CreatedAt.After(*end) {
		return false
	}
	return true
}

func matchesCategory(view *models.IncidentView, category string) bool {
	if category == "" {
		return true
	}
	return strings.Contains(strings.ToLower(view.Description), strings.ToLower(category))
}

func matchesRadius(view *models.IncidentView, origin *models.Location, radiusKM float64) bool {
	if origin == nil || radiusKM <= 0 {
		return true
	}
	return utils.IsWithinRadius(*origin, view.Location, radiusKM)
}
