package search

import (
	"sort"

	"github.com/gharbazaar/backend/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Sort keys accepted by the list endpoints. Unknown keys fall back to newest.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortAreaAsc   = "area-asc"
	SortAreaDesc  = "area-desc"
)

// MaxPageLimit caps the per-page window regardless of what the caller asks.
const MaxPageLimit = 100

// PageRequest is a 1-based pagination window. Normalize clamps it before use.
type PageRequest struct {
	Page  int
	Limit int
}

// PageResult carries one window of results plus the bookkeeping the client
// needs to drive further pages.
type PageResult struct {
	Properties []models.Property
	Total      int
	Page       int
	Limit      int
	HasMore    bool
}

// Normalize clamps the request into valid bounds: page and limit are at
// least 1 and limit never exceeds MaxPageLimit.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	if r.Limit > MaxPageLimit {
		r.Limit = MaxPageLimit
	}
	return r
}

// Skip is the number of candidates before this window.
func (r PageRequest) Skip() int {
	return (r.Page - 1) * r.Limit
}

// SortProperties orders candidates in place by the given key. The sort is
// stable and ties are broken by id hex ascending, so repeated calls over the
// same data always produce the same order.
func SortProperties(properties []models.Property, key string) {
	less := comparator(key)
	sort.SliceStable(properties, func(i, j int) bool {
		a, b := properties[i], properties[j]
		switch {
		case less(a, b):
			return true
		case less(b, a):
			return false
		default:
			return a.ID.Hex() < b.ID.Hex()
		}
	})
}

// Paginate windows an already filtered, already sorted candidate slice.
// A page past the end of the data yields an empty page, not an error.
func Paginate(properties []models.Property, req PageRequest) PageResult {
	req = req.Normalize()
	total := len(properties)

	skip := req.Skip()
	if skip > total {
		skip = total
	}
	end := skip + req.Limit
	if end > total {
		end = total
	}

	page := make([]models.Property, end-skip)
	copy(page, properties[skip:end])

	return PageResult{
		Properties: page,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		HasMore:    req.Skip()+len(page) < total,
	}
}

// SortSpec returns the Mongo sort document equivalent to SortProperties for
// the same key, with the same _id tiebreak, so server-side ordering and
// in-memory ordering agree.
func SortSpec(key string) bson.D {
	switch key {
	case SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case SortAreaAsc:
		return bson.D{{Key: "area", Value: 1}, {Key: "_id", Value: 1}}
	case SortAreaDesc:
		return bson.D{{Key: "area", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}

func comparator(key string) func(a, b models.Property) bool {
	switch key {
	case SortOldest:
		return func(a, b models.Property) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPriceAsc:
		return func(a, b models.Property) bool { return a.Price < b.Price }
	case SortPriceDesc:
		return func(a, b models.Property) bool { return a.Price > b.Price }
	case SortAreaAsc:
		return func(a, b models.Property) bool { return a.Area < b.Area }
	case SortAreaDesc:
		return func(a, b models.Property) bool { return a.Area > b.Area }
	default:
		return func(a, b models.Property) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}
