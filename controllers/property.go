package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gharbazaar/backend/config"
	"github.com/gharbazaar/backend/models"
	"github.com/gharbazaar/backend/search"
	"github.com/gorilla/mux"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCacheTTL = 10 * time.Minute

// GetAllProperties serves the paginated, filtered catalog. Responses are
// cached in redis keyed by the normalized query string; any property write
// invalidates the whole cache.
func GetAllProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		cacheKey := generateCacheKey(query)

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		filters := search.ParseFilterSet(query)
		pageReq := parsePageRequest(query)
		sortKey := query.Get("sort")

		mongoQuery := search.BuildQuery(filters)

		total, err := config.PropertyCollection.CountDocuments(r.Context(), mongoQuery)
		if err != nil {
			log.Printf("Error counting properties with query %+v: %v", mongoQuery, err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
			return
		}

		findOptions := options.Find().
			SetSort(search.SortSpec(sortKey)).
			SetSkip(int64(pageReq.Skip())).
			SetLimit(int64(pageReq.Limit))

		cursor, err := config.PropertyCollection.Find(r.Context(), mongoQuery, findOptions)
		if err != nil {
			log.Printf("Error fetching properties with query %+v: %v", mongoQuery, err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
			return
		}

		resp := models.APIResponse{
			Success: true,
			Data: models.PropertyPage{
				Properties: properties,
				Total:      total,
				Page:       pageReq.Page,
				Limit:      pageReq.Limit,
				HasMore:    int64(pageReq.Skip()+len(properties)) < total,
			},
		}

		resultBytes, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to encode response")
			return
		}

		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, listCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

// GetPropertyByID returns one property and bumps its view counter. The $inc
// is at-least-once; concurrent viewers may drift the count and that is fine.
func GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"_id": objID},
			bson.M{"$inc": bson.M{"views": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Printf("Error fetching property %s: %v", propertyID, err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch property")
			return
		}

		respondData(w, http.StatusOK, property)
	}
}

// CreateProperty validates the payload, snapshots the caller as owner, and
// inserts the listing.
func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			log.Println("User ID missing in context")
			respondError(w, http.StatusUnauthorized, "User ID missing in context")
			return
		}

		var req createPropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid request body: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if field := req.missingField(); field != "" {
			respondError(w, http.StatusBadRequest, field+" is required")
			return
		}
		if !containsValue(models.PropertyTypes, req.PropertyType) {
			respondError(w, http.StatusBadRequest, "Invalid propertyType")
			return
		}
		if !containsValue(models.TransactionTypes, req.TransactionType) {
			respondError(w, http.StatusBadRequest, "Invalid transactionType")
			return
		}
		if req.Furnishing == "" {
			req.Furnishing = "unfurnished"
		} else if !containsValue(models.Furnishings, req.Furnishing) {
			respondError(w, http.StatusBadRequest, "Invalid furnishing")
			return
		}

		owner, err := ownerSnapshot(r.Context(), userID)
		if err != nil {
			log.Printf("Failed to resolve owner %s: %v", userID, err)
			respondError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		property := req.toProperty()
		now := time.Now()
		property.ID = primitive.NewObjectID()
		property.Owner = owner
		property.CreatedAt = now
		property.UpdatedAt = now

		if _, err := config.PropertyCollection.InsertOne(r.Context(), property); err != nil {
			log.Printf("Insert failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to create property")
			return
		}

		go deletePropertyCache(redisClient)

		respondMessage(w, http.StatusCreated, "Property created successfully", property)
	}
}

// UpdateProperty applies a partial update. Only the owner may update; a
// missing listing is 404, somebody else's listing is 403.
func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			log.Println("User ID missing in context")
			respondError(w, http.StatusUnauthorized, "User ID missing in context")
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var existing models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&existing)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Printf("Error fetching property %s: %v", propertyID, err)
			respondError(w, http.StatusInternalServerError, "Update failed")
			return
		}
		if existing.Owner.ID != userID {
			log.Printf("User %s attempted to update property %s owned by %s", userID, propertyID, existing.Owner.ID)
			respondError(w, http.StatusForbidden, "Not authorized to update this property")
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid update data")
			return
		}

		// Identity, ownership and counters are never writable from here.
		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "owner")
		delete(updateData, "views")
		delete(updateData, "likes")
		delete(updateData, "createdAt")
		updateData["updatedAt"] = time.Now()

		var updated models.Property
		err = config.PropertyCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"_id": objID},
			bson.M{"$set": updateData},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			log.Printf("Update failed for property %s: %v", propertyID, err)
			respondError(w, http.StatusInternalServerError, "Update failed")
			return
		}

		go deletePropertyCache(redisClient)

		respondMessage(w, http.StatusOK, "Property updated successfully", updated)
	}
}

// DeleteProperty removes a listing after the same ownership check as update.
func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(r)
		if !ok {
			log.Println("User ID missing in context")
			respondError(w, http.StatusUnauthorized, "User ID missing in context")
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var existing models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&existing)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			log.Printf("Error fetching property %s: %v", propertyID, err)
			respondError(w, http.StatusInternalServerError, "Delete failed")
			return
		}
		if existing.Owner.ID != userID {
			log.Printf("User %s attempted to delete property %s owned by %s", userID, propertyID, existing.Owner.ID)
			respondError(w, http.StatusForbidden, "Not authorized to delete this property")
			return
		}

		if _, err := config.PropertyCollection.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			respondError(w, http.StatusInternalServerError, "Delete failed")
			return
		}

		go deletePropertyCache(redisClient)

		respondMessage(w, http.StatusOK, "Property deleted successfully", nil)
	}
}

// SearchByLocation returns a nearest-first list around a coordinate, capped
// at search.NearLimit and deliberately unpaginated.
func SearchByLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		lat := query.Get("lat")
		lng := query.Get("lng")
		if lat == "" || lng == "" {
			respondError(w, http.StatusBadRequest, "Latitude and longitude are required")
			return
		}

		radiusKm := float64(search.DefaultNearRadiusKm)
		if raw := query.Get("radius"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
				radiusKm = v
			} else {
				log.Printf("Ignoring invalid radius value: %s", raw)
			}
		}

		nearQuery, err := search.BuildNearQuery(lat, lng, radiusKm)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Latitude and longitude must be numeric")
			return
		}

		findOptions := options.Find().SetLimit(search.NearLimit)
		cursor, err := config.PropertyCollection.Find(r.Context(), nearQuery, findOptions)
		if err != nil {
			log.Printf("Location search failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to search properties by location")
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding location search results: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to search properties by location")
			return
		}

		// Extra filter params narrow the nearby list in memory, using the
		// same predicate the list endpoint compiles to a store query.
		if filters := search.ParseFilterSet(query); !filters.IsZero() {
			properties = search.Apply(properties, filters)
		}

		respondData(w, http.StatusOK, properties)
	}
}

// GetFeaturedProperties lists featured AND verified listings, newest first.
func GetFeaturedProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(6)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
				limit = v
			} else {
				log.Printf("Ignoring invalid limit value: %s", raw)
			}
		}

		findOptions := options.Find().
			SetSort(search.SortSpec(search.SortNewest)).
			SetLimit(limit)

		cursor, err := config.PropertyCollection.Find(r.Context(),
			bson.M{"featured": true, "verified": true}, findOptions)
		if err != nil {
			log.Printf("Error fetching featured properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch featured properties")
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding featured properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch featured properties")
			return
		}

		respondData(w, http.StatusOK, properties)
	}
}

// createPropertyRequest uses pointers for required numerics so an absent
// field can be told apart from a legitimate zero (a plot has zero bedrooms).
type createPropertyRequest struct {
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Price           *float64                `json:"price"`
	PricePerSqft    float64                 `json:"pricePerSqft"`
	Area            *float64                `json:"area"`
	Bedrooms        *int                    `json:"bedrooms"`
	Bathrooms       *int                    `json:"bathrooms"`
	PropertyType    string                  `json:"propertyType"`
	TransactionType string                  `json:"transactionType"`
	Location        models.Location         `json:"location"`
	Images          []models.Image          `json:"images"`
	Amenities       []string                `json:"amenities"`
	Features        []string                `json:"features"`
	Age             int                     `json:"age"`
	Floor           int                     `json:"floor"`
	TotalFloors     int                     `json:"totalFloors"`
	Furnishing      string                  `json:"furnishing"`
	Parking         int                     `json:"parking"`
	Balcony         int                     `json:"balcony"`
	Agent           *models.ContactSnapshot `json:"agent"`
	VirtualTour     string                  `json:"virtualTour"`
	FloorPlan       string                  `json:"floorPlan"`
	NearbyPlaces    []models.NearbyPlace    `json:"nearbyPlaces"`
}

// missingField returns the first absent required field, in the order the API
// contract promises, or "" when the payload is complete.
func (req createPropertyRequest) missingField() string {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return "title"
	case strings.TrimSpace(req.Description) == "":
		return "description"
	case req.Price == nil || *req.Price < 0:
		return "price"
	case req.Area == nil || *req.Area < 0:
		return "area"
	case req.Bedrooms == nil || *req.Bedrooms < 0:
		return "bedrooms"
	case req.Bathrooms == nil || *req.Bathrooms < 0:
		return "bathrooms"
	case req.PropertyType == "":
		return "propertyType"
	case req.TransactionType == "":
		return "transactionType"
	case strings.TrimSpace(req.Location.Address) == "" || strings.TrimSpace(req.Location.City) == "":
		return "location"
	}
	return ""
}

func (req createPropertyRequest) toProperty() models.Property {
	return models.Property{
		Title:           req.Title,
		Description:     req.Description,
		Price:           *req.Price,
		PricePerSqft:    req.PricePerSqft,
		Area:            *req.Area,
		Bedrooms:        *req.Bedrooms,
		Bathrooms:       *req.Bathrooms,
		PropertyType:    req.PropertyType,
		TransactionType: req.TransactionType,
		Location:        req.Location,
		Images:          req.Images,
		Amenities:       req.Amenities,
		Features:        req.Features,
		Age:             req.Age,
		Floor:           req.Floor,
		TotalFloors:     req.TotalFloors,
		Furnishing:      req.Furnishing,
		Parking:         req.Parking,
		Balcony:         req.Balcony,
		Agent:           req.Agent,
		VirtualTour:     req.VirtualTour,
		FloorPlan:       req.FloorPlan,
		NearbyPlaces:    req.NearbyPlaces,
	}
}

func ownerSnapshot(ctx context.Context, userID string) (models.ContactSnapshot, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.ContactSnapshot{}, err
	}

	var user models.User
	if err := config.UserCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return models.ContactSnapshot{}, err
	}

	return models.ContactSnapshot{
		ID:       userID,
		Name:     user.Name,
		Phone:    user.Phone,
		Email:    user.Email,
		Verified: user.Verified,
	}, nil
}

func parsePageRequest(query url.Values) search.PageRequest {
	req := search.PageRequest{Page: 1, Limit: 10}
	if raw := query.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Page = v
		} else {
			log.Printf("Ignoring invalid page value: %s", raw)
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Limit = v
		} else {
			log.Printf("Ignoring invalid limit value: %s", raw)
		}
	}
	return req.Normalize()
}

func containsValue(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func generateCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d property cache keys: %v", len(keysToDelete), err)
		return
	}
	log.Printf("Property cache invalidated, deleted %d keys", len(keysToDelete))
}
