package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gharbazaar/backend/config"
	"github.com/gharbazaar/backend/jobs"
	"github.com/gharbazaar/backend/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscribeRequest struct {
	Email       string                       `json:"email"`
	Preferences models.NewsletterPreferences `json:"preferences"`
}

// SubscribeNewsletter creates a subscription, or reactivates one that was
// previously unsubscribed. An already-active email is a 400.
func SubscribeNewsletter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid subscribe payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}

		var existing models.NewsletterSubscription
		err := config.NewsletterCollection.FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&existing)
		if err == nil {
			if existing.Status == "active" {
				respondError(w, http.StatusBadRequest, "Email is already subscribed")
				return
			}

			update := bson.M{"$set": bson.M{
				"status":      "active",
				"preferences": req.Preferences,
				"updatedAt":   time.Now(),
			}}
			var reactivated models.NewsletterSubscription
			err = config.NewsletterCollection.FindOneAndUpdate(
				r.Context(),
				bson.M{"_id": existing.ID},
				update,
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&reactivated)
			if err != nil {
				log.Printf("Failed to reactivate subscription for %s: %v", req.Email, err)
				respondError(w, http.StatusInternalServerError, "Failed to subscribe to newsletter")
				return
			}

			respondMessage(w, http.StatusOK, "Successfully resubscribed to newsletter", reactivated)
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Printf("Failed to check subscription for %s: %v", req.Email, err)
			respondError(w, http.StatusInternalServerError, "Failed to subscribe to newsletter")
			return
		}

		now := time.Now()
		subscription := models.NewsletterSubscription{
			ID:          primitive.NewObjectID(),
			Email:       req.Email,
			Status:      "active",
			Source:      "website",
			Preferences: req.Preferences,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := config.NewsletterCollection.InsertOne(r.Context(), subscription); err != nil {
			log.Printf("Failed to store subscription for %s: %v", req.Email, err)
			respondError(w, http.StatusInternalServerError, "Failed to subscribe to newsletter")
			return
		}

		respondMessage(w, http.StatusCreated, "Successfully subscribed to newsletter", subscription)
	}
}

// UnsubscribeNewsletter flips a subscription to unsubscribed.
func UnsubscribeNewsletter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid unsubscribe payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" {
			respondError(w, http.StatusBadRequest, "Email is required")
			return
		}

		res, err := config.NewsletterCollection.UpdateOne(
			r.Context(),
			bson.M{"email": req.Email},
			bson.M{"$set": bson.M{"status": "unsubscribed", "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("Failed to unsubscribe %s: %v", req.Email, err)
			respondError(w, http.StatusInternalServerError, "Failed to unsubscribe from newsletter")
			return
		}
		if res.MatchedCount == 0 {
			respondError(w, http.StatusNotFound, "Email not found in subscription list")
			return
		}

		respondMessage(w, http.StatusOK, "Successfully unsubscribed from newsletter", nil)
	}
}

// GetNewsletterSubscriptions is the paginated admin list.
func GetNewsletterSubscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		pageReq := parsePageRequest(query)

		filter := bson.M{}
		if status := query.Get("status"); status != "" {
			filter["status"] = status
		}

		total, err := config.NewsletterCollection.CountDocuments(r.Context(), filter)
		if err != nil {
			log.Printf("Error counting subscriptions: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
			return
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
			SetSkip(int64(pageReq.Skip())).
			SetLimit(int64(pageReq.Limit))

		cursor, err := config.NewsletterCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Error fetching subscriptions: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
			return
		}
		defer cursor.Close(r.Context())

		subscriptions := []models.NewsletterSubscription{}
		if err := cursor.All(r.Context(), &subscriptions); err != nil {
			log.Printf("Error decoding subscriptions: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
			return
		}

		respondData(w, http.StatusOK, map[string]interface{}{
			"subscriptions": subscriptions,
			"total":         total,
			"page":          pageReq.Page,
			"limit":         pageReq.Limit,
			"hasMore":       int64(pageReq.Skip()+len(subscriptions)) < total,
		})
	}
}

// GetNewsletterStats serves subscription totals, preferring the snapshot the
// nightly job keeps in redis and recomputing on a cold cache.
func GetNewsletterStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, err := redisClient.Get(r.Context(), jobs.NewsletterStatsKey).Result(); err == nil {
			var stats models.NewsletterStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				respondData(w, http.StatusOK, stats)
				return
			}
			log.Printf("Discarding unreadable cached newsletter stats: %v", err)
		} else if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", jobs.NewsletterStatsKey, err)
		}

		stats, err := jobs.ComputeNewsletterStats(r.Context())
		if err != nil {
			log.Printf("Failed to compute newsletter stats: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch statistics")
			return
		}

		jobs.CacheNewsletterStats(r.Context(), redisClient, stats)

		respondData(w, http.StatusOK, stats)
	}
}
