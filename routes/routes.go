package routes

import (
	"github.com/gharbazaar/backend/controllers"
	"github.com/gharbazaar/backend/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func Routes(router *mux.Router, redisClient *redis.Client) {
	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser()).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser()).Methods("POST")

	// Public catalog routes. Specific paths go before the {id} wildcard.
	router.HandleFunc("/api/properties", controllers.GetAllProperties(redisClient)).Methods("GET")
	router.HandleFunc("/api/properties/featured/list", controllers.GetFeaturedProperties()).Methods("GET")
	router.HandleFunc("/api/properties/search/location", controllers.SearchByLocation()).Methods("GET")
	router.HandleFunc("/api/properties/{id}", controllers.GetPropertyByID()).Methods("GET")

	// Contact capture and newsletter signup are public
	router.HandleFunc("/api/contact", controllers.SendContactMessage()).Methods("POST")
	router.HandleFunc("/api/newsletter/subscribe", controllers.SubscribeNewsletter()).Methods("POST")
	router.HandleFunc("/api/newsletter/unsubscribe", controllers.UnsubscribeNewsletter()).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	authenticated.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")

	authenticated.HandleFunc("/contact", controllers.GetContactMessages()).Methods("GET")
	authenticated.HandleFunc("/contact/{id}/status", controllers.UpdateContactStatus()).Methods("PUT")

	authenticated.HandleFunc("/newsletter", controllers.GetNewsletterSubscriptions()).Methods("GET")
	authenticated.HandleFunc("/newsletter/stats", controllers.GetNewsletterStats(redisClient)).Methods("GET")
}
