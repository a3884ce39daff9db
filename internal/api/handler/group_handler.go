package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

type groupRequest struct {
	Slug        string `json:"slug" binding:"required,max=100,slug"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// CreateGroup 创建分组（管理员）
// @Summary 创建分组
// @Tags 分组
// @Accept json
// @Produce json
// @Param request body groupRequest true "分组信息"
// @Success 201 {object} response.Response{data=GroupDTO}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/groups [post]
func (h *Handler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	group, err := h.postService.CreateGroup(c.Request.Context(), req.Slug, req.Title, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toGroup(group))
}

// DeleteGroup 删除分组，帖子保留但不再属于该分组（管理员）
// @Summary 删除分组
// @Tags 分组
// @Param slug path string true "分组 slug"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/groups/{slug} [delete]
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.postService.DeleteGroup(c.Request.Context(), c.Param("slug")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
