package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-feed/internal/api/middleware"
    "github.com/d60-Lab/social-feed/pkg/response"
)

// Follow 建立关注（粉丝冗余表异步落地）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
    actorID := middleware.CurrentUserID(c)
    if err := h.relService.Follow(c.Request.Context(), actorID, c.Param("user_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}

// Unfollow 取消关注；删除不存在的边直接成功
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被取关用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users/{user_id}/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
    actorID := middleware.CurrentUserID(c)
    if err := h.relService.Unfollow(c.Request.Context(), actorID, c.Param("user_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
    userID := c.Param("user_id")
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    list, err := h.relService.ListFollowing(c.Request.Context(), userID, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝（带用户快照，走 redis 缓存）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
    userID := c.Param("user_id")
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    list, err := h.relService.FollowerPage(c.Request.Context(), userID, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
