package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

const imageField = "image"

type postRequest struct {
	Text  string `json:"text" form:"text" binding:"required"`
	Group string `json:"group" form:"group" binding:"omitempty,slug"`
}

type commentRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

func postDetailPath(id uint64) string {
	return fmt.Sprintf("%s/posts/%d", apiPrefix, id)
}

func profilePath(username string) string {
	return apiPrefix + "/profile/" + username
}

func parsePostID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, "not found")
		return 0, false
	}
	return id, true
}

// bindPost 绑定 JSON 或 multipart 表单；返回的 closer 需在请求结束前调用
func bindPost(c *gin.Context) (service.PostInput, io.Closer, error) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		return service.PostInput{}, nil, err
	}
	in := service.PostInput{Text: req.Text, GroupSlug: req.Group}

	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, nil, nil
		}
		return service.PostInput{}, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return service.PostInput{}, nil, err
	}
	in.Image = &service.ImageUpload{Name: fh.Filename, ContentType: contentType(fh), Body: f}
	return in, f, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept json,mpfd
// @Param request body postRequest true "帖子内容"
// @Success 302 "跳转到作者主页"
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	u := middleware.CurrentUser(c)
	in, closer, err := bindPost(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	if _, err := h.postService.Create(c.Request.Context(), u.ID, in); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(u.Username))
}

// PostDetail 帖子详情及评论
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param post_id path int true "帖子ID"
// @Success 200 {object} response.Response{data=PostDetailDTO}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	detail, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, PostDetailDTO{Post: h.toPost(detail.Post), Comments: toComments(detail.Comments)})
}

// EditPost 编辑帖子，仅作者可操作；其他人跳转到帖子详情
// @Summary 编辑帖子
// @Tags 帖子
// @Accept json,mpfd
// @Param post_id path int true "帖子ID"
// @Param request body postRequest true "帖子内容"
// @Success 302 "跳转到帖子详情"
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [put]
func (h *Handler) EditPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	u := middleware.CurrentUser(c)
	detail, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	// 非作者直接回到详情页，不校验请求体
	if detail.Post.AuthorID != u.ID {
		c.Redirect(http.StatusFound, postDetailPath(id))
		return
	}
	in, closer, err := bindPost(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	if _, err := h.postService.Update(c.Request.Context(), u.ID, id, in); err != nil && !errors.Is(err, service.ErrForbidden) {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postDetailPath(id))
}

// DeletePost 删除帖子及其评论，仅作者可操作
// @Summary 删除帖子
// @Tags 帖子
// @Param post_id path int true "帖子ID"
// @Success 302 "作者：跳转到作者主页；其他人：跳转到帖子详情"
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	u := middleware.CurrentUser(c)
	if err := h.postService.Delete(c.Request.Context(), u.ID, id); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.Redirect(http.StatusFound, postDetailPath(id))
			return
		}
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(u.Username))
}

// AddComment 评论帖子
// @Summary 评论帖子
// @Tags 帖子
// @Accept json
// @Param post_id path int true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 302 "跳转到帖子详情"
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comment [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u := middleware.CurrentUser(c)
	if _, err := h.postService.AddComment(c.Request.Context(), u.ID, id, req.Text); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postDetailPath(id))
}
