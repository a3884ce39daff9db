package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/response"
)

const (
	apiPrefix       = "/api/v1"
	followFeedPath  = apiPrefix + "/follow"
	defaultNextPath = apiPrefix + "/posts"
)

// Deps 构造 Handler 所需的依赖
type Deps struct {
	Feed       service.FeedService
	Relations  service.RelationshipService
	Posts      service.PostService
	Auth       service.AuthService
	IndexCache *pagecache.Cache
	Images     storage.ImageStore
	TokenTTL   time.Duration
}

type Handler struct {
	feedService service.FeedService
	relService  service.RelationshipService
	postService service.PostService
	authService service.AuthService
	indexCache  *pagecache.Cache
	images      storage.ImageStore
	tokenTTL    time.Duration
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		feedService: d.Feed,
		relService:  d.Relations,
		postService: d.Posts,
		authService: d.Auth,
		indexCache:  d.IndexCache,
		images:      d.Images,
		tokenTTL:    d.TokenTTL,
	}
}

// fail 把 service 层错误映射为 HTTP 响应；ErrForbidden 由各 handler 自行处理为重定向
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
