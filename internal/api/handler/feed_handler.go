package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-feed/internal/api/middleware"
    "github.com/d60-Lab/social-feed/pkg/response"
)

// Feed 当前用户时间线：只含关注对象的帖子，新帖在前
// @Summary 查询时间线
// @Tags 时间线
// @Security BearerAuth
// @Param page_size query int false "每页数量"
// @Param cursor query string false "上一页返回的游标"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
    page, err := h.feedSvc.Timeline(c.Request.Context(), middleware.CurrentUserID(c), pageSize, c.Query("cursor"))
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, page)
}
