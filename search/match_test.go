package search

import (
	"net/url"
	"testing"
	"time"

	"github.com/gharbazaar/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleProperty() models.Property {
	return models.Property{
		ID:              primitive.NewObjectID(),
		Title:           "Spacious 3BHK Apartment",
		Description:     "Well ventilated apartment close to the metro",
		Price:           8500000,
		Area:            1450,
		Bedrooms:        3,
		Bathrooms:       2,
		PropertyType:    "apartment",
		TransactionType: "buy",
		Location: models.Location{
			Address: "12 Hill Road, Bandra West",
			City:    "Mumbai",
			State:   "Maharashtra",
			Pincode: "400050",
		},
		Amenities:  []string{"Gym", "Lift", "Power Backup"},
		Furnishing: "semi-furnished",
		Age:        4,
		Verified:   true,
		Featured:   false,
		CreatedAt:  time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestMatchesEmptyFilterMatchesEverything(t *testing.T) {
	properties := []models.Property{
		sampleProperty(),
		{},
		{Title: "Bare plot", PropertyType: "plot"},
	}

	for i, p := range properties {
		if !Matches(p, FilterSet{}) {
			t.Fatalf("property %d should match an empty filter set", i)
		}
	}
}

func TestMatchesLocationSubstring(t *testing.T) {
	p := sampleProperty()

	cases := []struct {
		location string
		want     bool
	}{
		{"mumbai", true},
		{"MUMBAI", true},
		{"bandra", true},
		{"Hill Road", true},
		{"pune", false},
	}
	for _, tc := range cases {
		if got := Matches(p, FilterSet{Location: tc.location}); got != tc.want {
			t.Errorf("location %q: got %v, want %v", tc.location, got, tc.want)
		}
	}
}

func TestMatchesFreeTextSearch(t *testing.T) {
	p := sampleProperty()

	if !Matches(p, FilterSet{Search: "bandra"}) {
		t.Fatal("search 'bandra' should match address 'Bandra West'")
	}
	if !Matches(p, FilterSet{Search: "VENTILATED"}) {
		t.Fatal("search should be case-insensitive over the description")
	}
	if Matches(p, FilterSet{Search: "penthouse"}) {
		t.Fatal("search 'penthouse' should not match")
	}
}

func TestMatchesAmenitiesSuperset(t *testing.T) {
	p := sampleProperty()
	p.Amenities = []string{"Gym", "Lift"}

	if !Matches(p, FilterSet{Amenities: []string{"Gym"}}) {
		t.Fatal("{Gym,Lift} should satisfy a request for [Gym]")
	}
	if Matches(p, FilterSet{Amenities: []string{"Gym", "Pool"}}) {
		t.Fatal("{Gym,Lift} should not satisfy a request for [Gym,Pool]")
	}
}

func TestMatchesMissingOptionalFields(t *testing.T) {
	// A property with no amenities and no location must not panic; it
	// simply fails the predicates it cannot satisfy.
	var empty models.Property

	if Matches(empty, FilterSet{Amenities: []string{"Gym"}}) {
		t.Fatal("empty property should not satisfy an amenities predicate")
	}
	if Matches(empty, FilterSet{Location: "mumbai"}) {
		t.Fatal("empty property should not satisfy a location predicate")
	}
	if Matches(empty, FilterSet{Verified: true}) {
		t.Fatal("empty property should not satisfy a verified predicate")
	}
}

func TestMatchesRangesAndFacets(t *testing.T) {
	p := sampleProperty()

	min := 8000000.0
	max := 9000000.0
	if !Matches(p, FilterSet{MinPrice: &min, MaxPrice: &max}) {
		t.Fatal("price 8.5M should fall inside [8M, 9M]")
	}

	tooLow := 9000000.0
	if Matches(p, FilterSet{MinPrice: &tooLow}) {
		t.Fatal("price 8.5M should fail a 9M minimum")
	}

	if !Matches(p, FilterSet{Bedrooms: []int{2, 3}}) {
		t.Fatal("3 bedrooms should match the {2,3} facet")
	}
	if Matches(p, FilterSet{Bedrooms: []int{1, 2}}) {
		t.Fatal("3 bedrooms should not match the {1,2} facet")
	}

	if Matches(p, FilterSet{MaxAge: 3}) {
		t.Fatal("age 4 should fail maxAge 3")
	}
	if !Matches(p, FilterSet{MaxAge: 4}) {
		t.Fatal("age 4 should pass maxAge 4")
	}

	if Matches(p, FilterSet{Featured: true}) {
		t.Fatal("non-featured property should fail the featured flag")
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	a := sampleProperty()
	a.Title = "A"
	b := sampleProperty()
	b.Title = "B"
	b.PropertyType = "villa"
	c := sampleProperty()
	c.Title = "C"

	got := Apply([]models.Property{a, b, c}, FilterSet{PropertyTypes: []string{"apartment"}})
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "C" {
		t.Fatalf("unexpected filtered set: %+v", got)
	}
}

func TestParseFilterSetCoercesBadNumbers(t *testing.T) {
	query := url.Values{}
	query.Set("minPrice", "abc")
	query.Set("maxPrice", "2000000")
	query.Set("bedrooms", "2,junk,3")
	query.Set("maxAge", "-5")
	query.Set("verified", "1")
	query.Set("featured", "true")

	f := ParseFilterSet(query)

	if f.MinPrice != nil {
		t.Fatalf("non-numeric minPrice must be treated as unset, got %v", *f.MinPrice)
	}
	if f.MaxPrice == nil || *f.MaxPrice != 2000000 {
		t.Fatalf("maxPrice not parsed: %+v", f.MaxPrice)
	}
	if len(f.Bedrooms) != 2 || f.Bedrooms[0] != 2 || f.Bedrooms[1] != 3 {
		t.Fatalf("bedrooms should drop the bad entry: %v", f.Bedrooms)
	}
	if f.MaxAge != 0 {
		t.Fatalf("negative maxAge must be treated as unset, got %d", f.MaxAge)
	}
	if f.Verified {
		t.Fatal("verified only narrows when the value is literally \"true\"")
	}
	if !f.Featured {
		t.Fatal("featured=true should set the flag")
	}
}

func TestParseFilterSetEmptyQueryIsZero(t *testing.T) {
	f := ParseFilterSet(url.Values{})
	if !f.IsZero() {
		t.Fatalf("empty query should yield the zero filter set: %+v", f)
	}
}

func TestParseFilterSetCityFallsBackToLocation(t *testing.T) {
	query := url.Values{}
	query.Set("city", "Mumbai")

	f := ParseFilterSet(query)
	if f.Location != "Mumbai" {
		t.Fatalf("city param should populate Location, got %q", f.Location)
	}
}
