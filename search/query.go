package search

import (
	"errors"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidQuery marks a query whose required coordinates are not numeric.
// Every other malformed input is skipped, not escalated.
var ErrInvalidQuery = errors.New("invalid query parameters")

// NearLimit caps the geo search result. Proximity search returns a bounded
// nearby list, not a paged one.
const NearLimit = 20

// DefaultNearRadiusKm applies when the radius parameter is absent or bad.
const DefaultNearRadiusKm = 10

// BuildQuery compiles a FilterSet into the Mongo filter document that selects
// exactly the properties Matches accepts. Predicates are AND-combined;
// location and free text each expand to an $or group over their fields.
func BuildQuery(f FilterSet) bson.M {
	var and []bson.M

	if f.Location != "" {
		re := substringRegex(f.Location)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"location.city": re},
			bson.M{"location.address": re},
		}})
	}

	switch len(f.PropertyTypes) {
	case 0:
	case 1:
		and = append(and, bson.M{"propertyType": f.PropertyTypes[0]})
	default:
		and = append(and, bson.M{"propertyType": bson.M{"$in": f.PropertyTypes}})
	}

	if f.TransactionType != "" {
		and = append(and, bson.M{"transactionType": f.TransactionType})
	}

	if rng := rangeClause(f.MinPrice, f.MaxPrice); rng != nil {
		and = append(and, bson.M{"price": rng})
	}
	if rng := rangeClause(f.MinArea, f.MaxArea); rng != nil {
		and = append(and, bson.M{"area": rng})
	}

	if len(f.Bedrooms) > 0 {
		and = append(and, bson.M{"bedrooms": bson.M{"$in": f.Bedrooms}})
	}
	if len(f.Bathrooms) > 0 {
		and = append(and, bson.M{"bathrooms": bson.M{"$in": f.Bathrooms}})
	}

	if len(f.Amenities) > 0 {
		and = append(and, bson.M{"amenities": bson.M{"$all": f.Amenities}})
	}
	if len(f.Furnishing) > 0 {
		and = append(and, bson.M{"furnishing": bson.M{"$in": f.Furnishing}})
	}

	if f.MaxAge > 0 {
		and = append(and, bson.M{"age": bson.M{"$lte": f.MaxAge}})
	}

	if f.Verified {
		and = append(and, bson.M{"verified": true})
	}
	if f.Featured {
		and = append(and, bson.M{"featured": true})
	}

	if f.Search != "" {
		re := substringRegex(f.Search)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location.address": re},
			bson.M{"location.city": re},
		}})
	}

	switch len(and) {
	case 0:
		return bson.M{}
	case 1:
		return and[0]
	default:
		return bson.M{"$and": and}
	}
}

// BuildNearQuery compiles a proximity search around (lat, lng) with a radius
// in kilometers. Non-numeric coordinates fail with ErrInvalidQuery; a bad
// radius falls back to the default.
func BuildNearQuery(lat, lng string, radiusKm float64) (bson.M, error) {
	latVal, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, ErrInvalidQuery
	}
	lngVal, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, ErrInvalidQuery
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearRadiusKm
	}

	return bson.M{
		"location.coordinates": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{lngVal, latVal},
				},
				"$maxDistance": radiusKm * 1000,
			},
		},
	}, nil
}

// substringRegex builds a case-insensitive substring matcher. The input is
// quoted so filter text is matched literally, never as a pattern.
func substringRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func rangeClause(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	rng := bson.M{}
	if min != nil {
		rng["$gte"] = *min
	}
	if max != nil {
		rng["$lte"] = *max
	}
	return rng
}
