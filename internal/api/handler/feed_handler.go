package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/pkg/pagination"
	"github.com/d60-Lab/yatube/pkg/response"
)

const cacheHeader = "X-Cache"

// Index 全站信息流；匿名访问第一页时走首页缓存
// @Summary 全站信息流
// @Tags 信息流
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=PageDTO[PostDTO]}
// @Failure 500 {object} response.Response
// @Router /api/v1/posts [get]
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := pagination.ParsePage(c.Query("page"))
	cacheable := h.indexCache != nil && page == 1 && middleware.CurrentUser(c) == nil

	if cacheable {
		if body, ok := h.indexCache.Get(ctx); ok {
			c.Header(cacheHeader, "HIT")
			c.Data(http.StatusOK, response.ContentTypeJSON, body)
			return
		}
	}

	feed, err := h.feedService.GlobalFeed(ctx, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := h.toPostPage(feed)
	if !cacheable {
		response.Success(c, data)
		return
	}

	body, err := response.Marshal(data)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.indexCache.Put(ctx, body)
	c.Header(cacheHeader, "MISS")
	c.Data(http.StatusOK, response.ContentTypeJSON, body)
}

// GroupPosts 分组信息流
// @Summary 分组信息流
// @Tags 信息流
// @Produce json
// @Param slug path string true "分组 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=GroupFeedDTO}
// @Failure 404 {object} response.Response
// @Router /api/v1/group/{slug} [get]
func (h *Handler) GroupPosts(c *gin.Context) {
	group, feed, err := h.feedService.GroupFeed(c.Request.Context(), c.Param("slug"), pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, GroupFeedDTO{Group: toGroup(group), Page: h.toPostPage(feed)})
}

// Profile 作者主页：作者信息、是否已关注、作者的帖子
// @Summary 作者主页
// @Tags 信息流
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=ProfileDTO}
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, feed, err := h.feedService.AuthorFeed(ctx, c.Param("username"), pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	following := false
	if u := middleware.CurrentUser(c); u != nil {
		if following, err = h.relService.IsFollowing(ctx, u.ID, author.ID); err != nil {
			h.fail(c, err)
			return
		}
	}
	response.Success(c, ProfileDTO{Author: toUser(author), Following: following, Page: h.toPostPage(feed)})
}

// FollowIndex 关注的作者的信息流，不走缓存
// @Summary 关注信息流
// @Tags 信息流
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=PageDTO[PostDTO]}
// @Success 302 "未登录时跳转登录页"
// @Router /api/v1/follow [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	u := middleware.CurrentUser(c)
	feed, err := h.feedService.FollowingFeed(c.Request.Context(), u.ID, pagination.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, h.toPostPage(feed))
}
