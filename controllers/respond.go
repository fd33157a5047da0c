package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gharbazaar/backend/models"
)

type ContextKey string

const UserIDKey = ContextKey("userID")

func respondJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, models.APIResponse{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, models.APIResponse{Success: true, Message: message, Data: data})
}

// respondError writes a failure envelope. The message is what the caller
// sees; anything sensitive stays in the server log at the call site.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.APIResponse{Success: false, Message: message})
}

// callerID pulls the authenticated user id injected by the auth middleware.
func callerID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok
}
