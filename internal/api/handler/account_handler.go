package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-feed/internal/api/middleware"
    "github.com/d60-Lab/social-feed/pkg/response"
)

type registerRequest struct {
    Username string `json:"username" binding:"required,username"`
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required,min=8,max=72"`
    Bio      string `json:"bio" binding:"max=500"`
}

type loginRequest struct {
    Username string `json:"username" binding:"required"`
    Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 注册新用户
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
    var req registerRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    u, err := h.accountSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Bio)
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Created(c, gin.H{"id": u.ID, "username": u.Username})
}

// Login 登录，签发 JWT
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    token, u, err := h.accountSvc.Login(c.Request.Context(), req.Username, req.Password)
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, gin.H{"token": token, "id": u.ID, "username": u.Username})
}

// GetProfile 个人主页
// @Summary 查询用户主页
// @Tags 账号
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
    p, err := h.accountSvc.Profile(c.Request.Context(), c.Param("user_id"))
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, p)
}

// Me 当前登录用户主页
// @Summary 当前用户
// @Tags 账号
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
    p, err := h.accountSvc.Profile(c.Request.Context(), middleware.CurrentUserID(c))
    if err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, p)
}

// DeleteMe 注销当前账号并级联删除派生数据
// @Summary 注销账号
// @Tags 账号
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
    if err := h.accountSvc.Delete(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
        writeServiceError(c, err)
        return
    }
    response.Success(c, nil)
}
