package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/pagination"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Follow 关注作者（异步写粉丝表）；关注自己视为无操作
// @Summary 关注作者
// @Tags 关系链
// @Param username path string true "用户名"
// @Success 302 "跳转到关注信息流"
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	u := middleware.CurrentUser(c)
	err := h.relService.Follow(c.Request.Context(), u.ID, c.Param("username"))
	if err != nil && !errors.Is(err, service.ErrFollowSelf) {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followFeedPath)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Param username path string true "用户名"
// @Success 302 "跳转到关注信息流"
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.relService.Unfollow(c.Request.Context(), u.ID, c.Param("username")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, followFeedPath)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=PageDTO[UserDTO]}
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("username"), pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, toUserPage(list))
}

// ListFans 查询某用户的粉丝
// @Summary 查询粉丝列表（来自冗余表）
// @Tags 关系链
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=PageDTO[UserDTO]}
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username}/fans [get]
func (h *Handler) ListFans(c *gin.Context) {
	list, err := h.relService.ListFans(c.Request.Context(), c.Param("username"), pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, toUserPage(list))
}
