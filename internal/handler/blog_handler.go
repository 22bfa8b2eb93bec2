package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agencysite/internal/service"
)

// BlogHandler serves the public blog and the admin post editor.
type BlogHandler struct {
	svc service.BlogService
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// ListPublishedPosts godoc
// @Summary List published posts
// @Tags blog
// @Produce json
// @Success 200 {array} model.BlogPost
// @Router /blog/posts [get]
func (h *BlogHandler) ListPublishedPosts(c echo.Context) error {
	posts, err := h.svc.ListPublishedPosts(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPublishedPost godoc
// @Summary Get a published post by slug
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} model.BlogPost
// @Failure 404 {object} errors.ErrorResponse
// @Router /blog/posts/{slug} [get]
func (h *BlogHandler) GetPublishedPost(c echo.Context) error {
	post, err := h.svc.GetPublishedPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary List all posts
// @Description Includes drafts.
// @Tags admin-posts
// @Security SessionCookie
// @Produce json
// @Success 200 {array} model.BlogPost
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/posts [get]
func (h *BlogHandler) ListPosts(c echo.Context) error {
	posts, err := h.svc.ListPosts(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get post
// @Tags admin-posts
// @Security SessionCookie
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.BlogPost
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [get]
func (h *BlogHandler) GetPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create post
// @Tags admin-posts
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param request body service.BlogPostInput true "Post"
// @Success 201 {object} model.BlogPost
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/posts [post]
func (h *BlogHandler) CreatePost(c echo.Context) error {
	var req service.BlogPostInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.svc.CreatePost(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update post
// @Description Partial update. Set isPublished to publish or unpublish.
// @Tags admin-posts
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body service.BlogPostPatch true "Fields to change"
// @Success 200 {object} model.BlogPost
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [put]
func (h *BlogHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.BlogPostPatch
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.svc.UpdatePost(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete post
// @Tags admin-posts
// @Security SessionCookie
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (h *BlogHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePost(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
}
