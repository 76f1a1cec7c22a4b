package content_http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
)

type PostLister interface {
	ListPosts(ctx context.Context, query model.ListPostsQuery) (*model.PaginatedPosts, error)
}

type ListPostsHandler struct {
	service PostLister
	log     ports.Logger
}

func NewListPostsHandler(service PostLister, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{
		service: service,
		log:     log,
	}
}

// ServeHTTP reads search, page and limit from the query string. Missing or
// malformed numbers fall through to the service defaults.
func (h *ListPostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.ListPostsQuery{
		Search: q.Get("search"),
		Page:   atoiOrZero(q.Get("page")),
		Limit:  atoiOrZero(q.Get("limit")),
	}

	h.log.Debug("Handling ListPosts request",
		slog.String("search", query.Search),
		slog.Int("page", query.Page),
		slog.Int("limit", query.Limit))

	result, err := h.service.ListPosts(r.Context(), query)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	records := make([]PostResponse, 0, len(result.Records))
	for _, p := range result.Records {
		records = append(records, toPostResponse(p))
	}

	writeJSON(w, http.StatusOK, ListPostsResponse{Records: records, Meta: result.Meta})
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
