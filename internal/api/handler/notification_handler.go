package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-feed/internal/api/middleware"
    "github.com/d60-Lab/social-feed/pkg/response"
)

// ListNotifications 当前用户通知，新的在前
// @Summary 查询通知列表
// @Tags 通知
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    list, err := h.notifSvc.List(c.Request.Context(), middleware.CurrentUserID(c), page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// UnreadCount 未读通知数
// @Summary 未读通知数
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/unread_count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
    cnt, err := h.notifSvc.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"count": cnt})
}

// MarkNotificationRead 标记单条通知已读（通知唯一允许的变更）
// @Summary 标记通知已读
// @Tags 通知
// @Security BearerAuth
// @Param notification_id path string true "通知ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/{notification_id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
    if err := h.notifSvc.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), c.Param("notification_id")); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}
