package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

const (
	// LoginPath is where anonymous callers are sent by RequireLogin.
	LoginPath = "/api/v1/auth/login"
	// TokenCookie carries the JWT for browser clients.
	TokenCookie = "token"

	currentUserKey = "currentUser"
)

// TokenResolver turns a token into a user.
type TokenResolver interface {
	ParseToken(token string) (uint64, error)
	CurrentUser(ctx context.Context, id uint64) (*model.User, error)
}

// Authenticate 尽力解析当前用户，失败时按匿名处理
func Authenticate(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		id, err := resolver.ParseToken(token)
		if err != nil {
			logger.Debug("ignore invalid token", zap.Error(err))
			c.Next()
			return
		}
		user, err := resolver.CurrentUser(c.Request.Context(), id)
		if err != nil {
			logger.Debug("token user not found", zap.Uint64("user_id", id), zap.Error(err))
			c.Next()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return v
	}
	return ""
}

// CurrentUser 返回已认证用户，匿名请求返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// LoginRedirect builds the login URL that brings the caller back to requestURI.
func LoginRedirect(requestURI string) string {
	return LoginPath + "?next=" + url.QueryEscape(requestURI)
}

// RequireLogin 未登录一律跳转登录页：GET/HEAD 用 302，其它方法用 303
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		code := http.StatusSeeOther
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			code = http.StatusFound
		}
		c.Redirect(code, LoginRedirect(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin {
			response.Forbidden(c, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
