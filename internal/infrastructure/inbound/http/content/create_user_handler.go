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

type UserCreator interface {
	CreateUser(ctx context.Context, user *model.CreateUserDTO) (*model.User, error)
}

type CreateUserHandler struct {
	service  UserCreator
	validate *validator.Validate
	log      ports.Logger
}

func NewCreateUserHandler(service UserCreator, validate *validator.Validate, log ports.Logger) *CreateUserHandler {
	return &CreateUserHandler{
		service:  service,
		validate: validate,
		log:      log,
	}
}

type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,max=255"`
	FirstName string  `json:"first_name" validate:"required,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
}

func (h *CreateUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("CreateUser body decode failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("CreateUser validation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.service.CreateUser(r.Context(), &model.CreateUserDTO{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}
