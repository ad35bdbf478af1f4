package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-service/internal/domain"
	"blog-service/internal/metrics"
)

const defaultPageSize = 20

type createPostRequest struct {
	Title   string `json:"title" binding:"required,notblank,max=255"`
	Content string `json:"content" binding:"required,notblank"`
}

type updatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,notblank,max=255"`
	Content *string `json:"content" binding:"omitempty,notblank"`
}

type listPostsQuery struct {
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

type PostResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListPostsResponse struct {
	Posts  []PostResponse `json:"posts"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), currentUserID(c), req.Title, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	metrics.PostMutationsTotal.WithLabelValues("create").Inc()

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) listPosts(c *gin.Context) {
	var query listPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	filter := domain.PostFilter{Limit: query.Limit, Offset: query.Offset}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}
	if query.AuthorID != "" {
		authorID, err := uuid.Parse(query.AuthorID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "author_id must be a valid id"})
			return
		}
		filter.AuthorID = &authorID
	}

	posts, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := ListPostsResponse{
		Posts:  make([]PostResponse, len(posts)),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range posts {
		resp.Posts[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), currentUserID(c), id, domain.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	metrics.PostMutationsTotal.WithLabelValues("update").Inc()

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	metrics.PostMutationsTotal.WithLabelValues("delete").Inc()

	c.Status(http.StatusNoContent)
}

func postIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid post id"})
		return uuid.Nil, false
	}
	return id, true
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID.String(),
		AuthorID:  post.AuthorID.String(),
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: post.UpdatedAt.Format(time.RFC3339Nano),
	}
}
