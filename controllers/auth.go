package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gharbazaar/backend/config"
	"github.com/gharbazaar/backend/models"
	"github.com/gharbazaar/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding user data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Name, email and password are required")
			return
		}
		if req.Role == "" {
			req.Role = "user"
		}

		exists := config.UserCollection.FindOne(r.Context(), bson.M{"email": req.Email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", req.Email)
			respondError(w, http.StatusConflict, "Email already exists")
			return
		}

		hashedPwd, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		user := models.User{
			ID:        primitive.NewObjectID(),
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Password:  hashedPwd,
			Role:      req.Role,
			CreatedAt: time.Now(),
		}

		if _, err := config.UserCollection.InsertOne(r.Context(), user); err != nil {
			log.Printf("Error inserting user into the database: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		token, err := utils.GenerateJWT(user.ID.Hex())
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}

		user.Password = ""
		respondMessage(w, http.StatusCreated, "User registered successfully", authPayload{Token: token, User: user})
	}
}

func LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		var dbUser models.User
		err := config.UserCollection.FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&dbUser)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Printf("Error fetching user %s: %v", req.Email, err)
			}
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		if !utils.CheckPasswordHash(req.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", req.Email)
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := utils.GenerateJWT(dbUser.ID.Hex())
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}

		dbUser.Password = ""
		respondMessage(w, http.StatusOK, "Login successful", authPayload{Token: token, User: dbUser})
	}
}
