package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gharbazaar/backend/config"
	"github.com/gharbazaar/backend/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId"`
}

// SendContactMessage captures a contact/enquiry form submission.
func SendContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid contact payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
			respondError(w, http.StatusBadRequest, "Name, email, subject, and message are required")
			return
		}

		message := models.ContactMessage{
			ID:        primitive.NewObjectID(),
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Subject:   req.Subject,
			Message:   req.Message,
			Status:    "new",
			Priority:  "medium",
			CreatedAt: time.Now(),
		}

		if req.PropertyID != "" {
			objID, err := primitive.ObjectIDFromHex(req.PropertyID)
			if err != nil {
				log.Printf("Ignoring invalid propertyId on contact message: %s", req.PropertyID)
			} else {
				message.PropertyID = objID
			}
		}

		if _, err := config.ContactCollection.InsertOne(r.Context(), message); err != nil {
			log.Printf("Failed to store contact message: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to send message")
			return
		}

		respondMessage(w, http.StatusCreated, "Message sent successfully", map[string]interface{}{
			"id":     message.ID,
			"status": message.Status,
		})
	}
}

// GetContactMessages is the paginated admin list, optionally narrowed by
// status.
func GetContactMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		pageReq := parsePageRequest(query)

		filter := bson.M{}
		if status := query.Get("status"); status != "" {
			filter["status"] = status
		}

		total, err := config.ContactCollection.CountDocuments(r.Context(), filter)
		if err != nil {
			log.Printf("Error counting contact messages: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
			SetSkip(int64(pageReq.Skip())).
			SetLimit(int64(pageReq.Limit))

		cursor, err := config.ContactCollection.Find(r.Context(), filter, findOptions)
		if err != nil {
			log.Printf("Error fetching contact messages: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}
		defer cursor.Close(r.Context())

		messages := []models.ContactMessage{}
		if err := cursor.All(r.Context(), &messages); err != nil {
			log.Printf("Error decoding contact messages: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}

		respondData(w, http.StatusOK, map[string]interface{}{
			"messages": messages,
			"total":    total,
			"page":     pageReq.Page,
			"limit":    pageReq.Limit,
			"hasMore":  int64(pageReq.Skip()+len(messages)) < total,
		})
	}
}

// UpdateContactStatus moves a message through new -> contacted -> closed.
func UpdateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(messageID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid message ID")
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if !containsValue(models.ContactStatuses, body.Status) {
			respondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		var updated models.ContactMessage
		err = config.ContactCollection.FindOneAndUpdate(
			r.Context(),
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{"status": body.Status}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(w, http.StatusNotFound, "Message not found")
				return
			}
			log.Printf("Failed to update contact message %s: %v", messageID, err)
			respondError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}

		respondMessage(w, http.StatusOK, "Status updated successfully", updated)
	}
}
