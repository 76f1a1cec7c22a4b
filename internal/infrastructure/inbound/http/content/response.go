package content_http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
)

const retryAfterSeconds = "1"

type ErrorResponse struct {
	Error string `json:"error"`
}

type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type PostResponse struct {
	ID        int64    `json:"id"`
	CreatedBy *int64   `json:"created_by"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
}

type ListPostsResponse struct {
	Records []PostResponse       `json:"records"`
	Meta    model.PaginationMeta `json:"meta"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toPostResponse(p *model.PostWithTags) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:        p.Post.ID,
		CreatedBy: p.Post.CreatedBy,
		Title:     p.Post.Title,
		Body:      p.Post.Body,
		Tags:      tags,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps the service error kinds onto status codes. The
// message is fixed per kind.
func writeServiceError(w http.ResponseWriter, log ports.Logger, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	case custom_errors.IsRetryable(err):
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable"})
	default:
		log.Error("Request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
