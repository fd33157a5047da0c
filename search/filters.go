package search

import (
	"log"
	"net/url"
	"strconv"
	"strings"
)

// FilterSet is the value object behind every property search. The zero value
// matches every property. Unset numeric bounds are nil pointers, never a
// zero that would silently narrow a range.
type FilterSet struct {
	Location        string
	PropertyTypes   []string
	TransactionType string
	MinPrice        *float64
	MaxPrice        *float64
	MinArea         *float64
	MaxArea         *float64
	Bedrooms        []int
	Bathrooms       []int
	Amenities       []string
	Furnishing      []string
	MaxAge          int
	Verified        bool
	Featured        bool
	Search          string
}

// IsZero reports whether the set carries no predicates at all.
func (f FilterSet) IsZero() bool {
	return f.Location == "" && len(f.PropertyTypes) == 0 && f.TransactionType == "" &&
		f.MinPrice == nil && f.MaxPrice == nil && f.MinArea == nil && f.MaxArea == nil &&
		len(f.Bedrooms) == 0 && len(f.Bathrooms) == 0 && len(f.Amenities) == 0 &&
		len(f.Furnishing) == 0 && f.MaxAge == 0 && !f.Verified && !f.Featured && f.Search == ""
}

// ParseFilterSet maps request query parameters onto a FilterSet. Malformed
// values degrade to the unset predicate rather than failing the request:
// a non-numeric price bound is treated as no bound at all.
func ParseFilterSet(query url.Values) FilterSet {
	f := FilterSet{
		Location:        strings.TrimSpace(query.Get("location")),
		TransactionType: strings.TrimSpace(query.Get("transactionType")),
		Search:          strings.TrimSpace(query.Get("search")),
	}

	f.PropertyTypes = splitList(query.Get("type"))
	f.Amenities = splitList(query.Get("amenities"))
	f.Furnishing = splitList(query.Get("furnishing"))

	f.MinPrice = parseBound(query.Get("minPrice"), "minPrice")
	f.MaxPrice = parseBound(query.Get("maxPrice"), "maxPrice")
	f.MinArea = parseBound(query.Get("minArea"), "minArea")
	f.MaxArea = parseBound(query.Get("maxArea"), "maxArea")

	f.Bedrooms = parseIntList(query.Get("bedrooms"), "bedrooms")
	f.Bathrooms = parseIntList(query.Get("bathrooms"), "bathrooms")

	if raw := query.Get("maxAge"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.MaxAge = n
		} else {
			log.Printf("Ignoring invalid maxAge value: %s", raw)
		}
	}

	// These flags only narrow the result when explicitly "true"; any other
	// value (including "false") leaves the predicate unset.
	f.Verified = query.Get("verified") == "true"
	f.Featured = query.Get("featured") == "true"

	// Support the single-value city param alongside the generic location one.
	if f.Location == "" {
		f.Location = strings.TrimSpace(query.Get("city"))
	}

	return f
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBound(raw, field string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Ignoring invalid %s value: %s", field, raw)
		return nil
	}
	return &v
}

func parseIntList(raw, field string) []int {
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			log.Printf("Ignoring invalid %s value: %s", field, trimmed)
			continue
		}
		out = append(out, n)
	}
	return out
}
