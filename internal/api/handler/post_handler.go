package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-feed/internal/api/middleware"
    "github.com/d60-Lab/social-feed/pkg/response"
)

type createPostRequest struct {
    Content string `json:"content" binding:"required,max=2000"`
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
    var req createPostRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    post, err := h.postSvc.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Content)
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Created(c, post)
}

// GetPost 查询单帖
// @Summary 查询帖子
// @Tags 内容
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
    post, likes, comments, err := h.postSvc.Get(c.Request.Context(), c.Param("post_id"))
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, gin.H{"post": post, "like_count": likes, "comment_count": comments})
}

// DeletePost 删帖（仅作者）
// @Summary 删除帖子
// @Tags 内容
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
    if err := h.postSvc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("post_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}

// ListUserPosts 某用户的帖子列表
// @Summary 查询用户帖子
// @Tags 内容
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    posts, err := h.postSvc.ListByAuthor(c.Request.Context(), c.Param("user_id"), page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": posts})
}

type createCommentRequest struct {
    Content string `json:"content" binding:"required,max=1000"`
}

// CreateComment 评论帖子
// @Summary 发布评论
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body createCommentRequest true "评论内容"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
    var req createCommentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    cm, err := h.postSvc.Comment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("post_id"), req.Content)
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Created(c, cm)
}

// ListComments 帖子的评论列表（最早在前）
// @Summary 查询帖子评论
// @Tags 内容
// @Param post_id path string true "帖子ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    comments, err := h.postSvc.ListComments(c.Request.Context(), c.Param("post_id"), page, pageSize)
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": comments})
}

// DeleteComment 删除评论（评论作者或帖子作者）
// @Summary 删除评论
// @Tags 内容
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/comments/{comment_id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
    if err := h.postSvc.DeleteComment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("comment_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}

// LikePost 点赞；重复点赞幂等返回
// @Summary 点赞帖子
// @Tags 内容
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
    lk, err := h.postSvc.Like(c.Request.Context(), middleware.CurrentUserID(c), c.Param("post_id"))
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, lk)
}

// UnlikePost 取消点赞；未点过赞返回 400
// @Summary 取消点赞
// @Tags 内容
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/unlike [post]
func (h *Handler) UnlikePost(c *gin.Context) {
    if err := h.postSvc.Unlike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("post_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}
