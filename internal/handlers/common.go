package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/whoami1432/voosh-authentication/internal/models"
)

const requestTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, models.MessageResponse{
		Message: "Something went wrong. Please try again later.",
	})
}
