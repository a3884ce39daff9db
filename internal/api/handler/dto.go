package handler

import (
	"time"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type GroupDTO struct {
	ID          uint64 `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PostDTO struct {
	ID      uint64    `json:"id"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Author  UserDTO   `json:"author"`
	Group   *GroupDTO `json:"group,omitempty"`
	Image   string    `json:"image,omitempty"`
}

type CommentDTO struct {
	ID      uint64    `json:"id"`
	Text    string    `json:"text"`
	Author  UserDTO   `json:"author"`
	Created time.Time `json:"created"`
}

// PageDTO 分页结果
type PageDTO[T any] struct {
	Items []T `json:"items"`
	pagination.Window
}

type GroupFeedDTO struct {
	Group GroupDTO         `json:"group"`
	Page  PageDTO[PostDTO] `json:"page"`
}

type ProfileDTO struct {
	Author    UserDTO          `json:"author"`
	Following bool             `json:"following"`
	Page      PageDTO[PostDTO] `json:"page"`
}

type PostDetailDTO struct {
	Post     PostDTO      `json:"post"`
	Comments []CommentDTO `json:"comments"`
}

type LoginDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
	Next  string  `json:"next"`
}

func toUser(u *model.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username}
}

func toGroup(g *model.Group) GroupDTO {
	return GroupDTO{ID: g.ID, Slug: g.Slug, Title: g.Title, Description: g.Description}
}

func (h *Handler) toPost(p *model.Post) PostDTO {
	dto := PostDTO{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.CreatedAt,
		Author:  toUser(&p.Author),
	}
	if p.Group != nil {
		g := toGroup(p.Group)
		dto.Group = &g
	}
	if p.Image != "" && h.images != nil {
		dto.Image = h.images.URL(p.Image)
	}
	return dto
}

func (h *Handler) toPostPage(page pagination.Page[*model.Post]) PageDTO[PostDTO] {
	items := make([]PostDTO, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, h.toPost(p))
	}
	return PageDTO[PostDTO]{Items: items, Window: page.Window}
}

func toUserPage(page pagination.Page[*model.User]) PageDTO[UserDTO] {
	items := make([]UserDTO, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toUser(u))
	}
	return PageDTO[UserDTO]{Items: items, Window: page.Window}
}

func toComments(comments []*model.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentDTO{ID: c.ID, Text: c.Text, Author: toUser(&c.Author), Created: c.CreatedAt})
	}
	return out
}
