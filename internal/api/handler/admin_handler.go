package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

// ResetIndexCache 清空首页缓存（管理员）
// @Summary 清空首页缓存
// @Tags 管理
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/cache/reset [post]
func (h *Handler) ResetIndexCache(c *gin.Context) {
	if h.indexCache != nil {
		h.indexCache.Invalidate(c.Request.Context())
	}
	response.Success(c, nil)
}
