package search

import (
	"strings"

	"github.com/gharbazaar/backend/models"
)

// Matches is the single source of truth for filter semantics. The in-memory
// evaluator calls it directly and the Mongo compiler in query.go mirrors it
// clause for clause; any change here needs the matching change there.
//
// All predicates are AND-combined. An unset predicate always passes, so the
// zero FilterSet matches every property.
func Matches(p models.Property, f FilterSet) bool {
	if f.Location != "" &&
		!containsFold(p.Location.City, f.Location) &&
		!containsFold(p.Location.Address, f.Location) {
		return false
	}

	if len(f.PropertyTypes) > 0 && !containsString(f.PropertyTypes, p.PropertyType) {
		return false
	}

	if f.TransactionType != "" && p.TransactionType != f.TransactionType {
		return false
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}

	if f.MinArea != nil && p.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && p.Area > *f.MaxArea {
		return false
	}

	if len(f.Bedrooms) > 0 && !containsInt(f.Bedrooms, p.Bedrooms) {
		return false
	}
	if len(f.Bathrooms) > 0 && !containsInt(f.Bathrooms, p.Bathrooms) {
		return false
	}

	// Property must carry every requested amenity.
	for _, amenity := range f.Amenities {
		if !containsString(p.Amenities, amenity) {
			return false
		}
	}

	if len(f.Furnishing) > 0 && !containsString(f.Furnishing, p.Furnishing) {
		return false
	}

	if f.MaxAge > 0 && p.Age > f.MaxAge {
		return false
	}

	if f.Verified && !p.Verified {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}

	if f.Search != "" &&
		!containsFold(p.Title, f.Search) &&
		!containsFold(p.Description, f.Search) &&
		!containsFold(p.Location.Address, f.Search) &&
		!containsFold(p.Location.City, f.Search) {
		return false
	}

	return true
}

// Apply returns the subset of properties satisfying the filter, preserving
// input order. The result is always a fresh slice.
func Apply(properties []models.Property, f FilterSet) []models.Property {
	matched := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if Matches(p, f) {
			matched = append(matched, p)
		}
	}
	return matched
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
