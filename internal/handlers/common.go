package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/pagination"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps a service error to its HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), statusFromError(err))
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writePagination exposes paging metadata out of band, in a Pagination
// header, with the items alone in the body.
func writePagination(w http.ResponseWriter, meta pagination.Meta) {
	header, _ := json.Marshal(meta)
	w.Header().Set("Pagination", string(header))
	w.Header().Set("Access-Control-Expose-Headers", "Pagination")
}

// parsePageParams reads pageNumber/pageSize query parameters
func parsePageParams(r *http.Request) pagination.Params {
	return pagination.NewParams(
		queryInt(r, "pageNumber"),
		queryInt(r, "pageSize"),
	)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}

func queryBool(r *http.Request, name string) bool {
	value, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return value
}
