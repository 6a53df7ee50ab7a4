package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandlePair handles POST /v1/auth/pair
func (h *Handlers) HandlePair(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.Code == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	resp, err := h.service.Pair(&req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPairingDisabled):
			writeErrorResponse(w, http.StatusForbidden, "pairing_disabled", err.Error())
		case errors.Is(err, ErrInvalidCode):
			writeErrorResponse(w, http.StatusUnauthorized, "invalid_code", err.Error())
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
