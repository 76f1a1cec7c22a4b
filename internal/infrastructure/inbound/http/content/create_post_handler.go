package content_http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
)

type PostCreator interface {
	CreatePostWithTags(ctx context.Context, post *model.CreatePostDTO) (*model.PostWithTags, error)
}

type CreatePostHandler struct {
	service  PostCreator
	validate *validator.Validate
	log      ports.Logger
}

func NewCreatePostHandler(service PostCreator, validate *validator.Validate, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		service:  service,
		validate: validate,
		log:      log,
	}
}

type CreatePostRequest struct {
	CreatedBy *int64   `json:"created_by" validate:"omitempty,gt=0"`
	Title     string   `json:"title" validate:"required,max=255"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags" validate:"omitempty,dive,required,max=100"`
}

func (h *CreatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("CreatePost body decode failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("CreatePost validation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	h.log.Debug("Handling CreatePost request",
		slog.Any("created_by", req.CreatedBy),
		slog.Int("tags_count", len(req.Tags)))

	post, err := h.service.CreatePostWithTags(r.Context(), &model.CreatePostDTO{
		CreatedBy: req.CreatedBy,
		Title:     req.Title,
		Body:      req.Body,
		Tags:      req.Tags,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}
