package search

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildQueryEmptyFilter(t *testing.T) {
	got := BuildQuery(FilterSet{})
	if len(got) != 0 {
		t.Fatalf("empty filter must compile to the match-all query, got %v", got)
	}
}

func TestBuildQueryMinOnlyRange(t *testing.T) {
	min := 5000000.0
	got := BuildQuery(FilterSet{MinPrice: &min})

	want := bson.M{"price": bson.M{"$gte": 5000000.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildQueryMaxOnlyRange(t *testing.T) {
	max := 900.0
	got := BuildQuery(FilterSet{MaxArea: &max})

	want := bson.M{"area": bson.M{"$lte": 900.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildQueryAmenitiesAll(t *testing.T) {
	got := BuildQuery(FilterSet{Amenities: []string{"Gym", "Pool"}})

	want := bson.M{"amenities": bson.M{"$all": []string{"Gym", "Pool"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildQuerySingleVsMultiType(t *testing.T) {
	got := BuildQuery(FilterSet{PropertyTypes: []string{"villa"}})
	if !reflect.DeepEqual(got, bson.M{"propertyType": "villa"}) {
		t.Fatalf("single type should be an equality clause, got %v", got)
	}

	got = BuildQuery(FilterSet{PropertyTypes: []string{"villa", "house"}})
	want := bson.M{"propertyType": bson.M{"$in": []string{"villa", "house"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildQueryFreeTextOrGroup(t *testing.T) {
	got := BuildQuery(FilterSet{Search: "bandra"})

	or, ok := got["$or"].(bson.A)
	if !ok {
		t.Fatalf("free text should compile to an $or group, got %v", got)
	}
	if len(or) != 4 {
		t.Fatalf("free text should span 4 fields, got %d", len(or))
	}

	first, ok := or[0].(bson.M)
	if !ok {
		t.Fatalf("unexpected clause shape: %v", or[0])
	}
	re, ok := first["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title clause should be a regex, got %v", first["title"])
	}
	if re.Pattern != "bandra" || re.Options != "i" {
		t.Fatalf("unexpected regex: %+v", re)
	}
}

func TestBuildQueryEscapesRegexInput(t *testing.T) {
	got := BuildQuery(FilterSet{Search: "1+1 (road)"})

	or := got["$or"].(bson.A)
	re := or[0].(bson.M)["title"].(primitive.Regex)
	if re.Pattern == "1+1 (road)" {
		t.Fatal("regex metacharacters must be quoted")
	}
}

func TestBuildQueryCombinesGroupsUnderAnd(t *testing.T) {
	min := 100.0
	got := BuildQuery(FilterSet{
		Location: "mumbai",
		Search:   "sea view",
		MinArea:  &min,
		Verified: true,
	})

	and, ok := got["$and"].([]bson.M)
	if !ok {
		t.Fatalf("multiple predicates should combine under $and, got %v", got)
	}
	if len(and) != 4 {
		t.Fatalf("want 4 AND clauses, got %d", len(and))
	}
}

func TestBuildNearQuery(t *testing.T) {
	got, err := BuildNearQuery("19.0596", "72.8295", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	near := got["location.coordinates"].(bson.M)["$near"].(bson.M)
	if near["$maxDistance"] != 5000.0 {
		t.Fatalf("radius 5km should compile to 5000m, got %v", near["$maxDistance"])
	}
	coords := near["$geometry"].(bson.M)["coordinates"].(bson.A)
	if coords[0] != 72.8295 || coords[1] != 19.0596 {
		t.Fatalf("coordinates must be [lng, lat], got %v", coords)
	}
}

func TestBuildNearQueryDefaultsRadius(t *testing.T) {
	got, err := BuildNearQuery("19.0", "72.8", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	near := got["location.coordinates"].(bson.M)["$near"].(bson.M)
	if near["$maxDistance"] != float64(DefaultNearRadiusKm*1000) {
		t.Fatalf("zero radius should fall back to the default, got %v", near["$maxDistance"])
	}
}

func TestBuildNearQueryInvalidCoordinates(t *testing.T) {
	if _, err := BuildNearQuery("not-a-number", "72.8", 5); err != ErrInvalidQuery {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
	if _, err := BuildNearQuery("19.0", "", 5); err != ErrInvalidQuery {
		t.Fatalf("want ErrInvalidQuery, got %v", err)
	}
}

// Clause-level parity with Matches: every property accepted by Matches for a
// given filter has field values satisfying the compiled clauses, checked here
// for the range + facet shapes that historically drifted between the two.
func TestCompilerMirrorsMatcherOnRanges(t *testing.T) {
	min := 10.0
	max := 20.0
	q := BuildQuery(FilterSet{MinPrice: &min, MaxPrice: &max})

	rng := q["price"].(bson.M)
	if rng["$gte"] != 10.0 || rng["$lte"] != 20.0 {
		t.Fatalf("range clause %v does not mirror Matches bounds", rng)
	}
}
