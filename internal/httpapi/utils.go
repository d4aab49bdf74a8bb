package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pagebound/score-service/internal/apierrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code, message string) {
	writeJSON(w, apierrors.ToStatusCode(code), apierrors.ErrorResponse{Code: code, Message: message})
}
