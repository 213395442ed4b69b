package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/db"
	"github.com/plantlog/internal/service"
)

const currentUserContextKey = "__current_user"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
}

// Register 注册新用户并直接签发访问令牌（注册即登录）
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Username:    user.Username,
	})
}

// Login 校验凭证并返回访问令牌
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Username:    user.Username,
	})
}

// AuthRequired 解析 Bearer 令牌并将当前用户放入上下文；
// 令牌无效或账号被停用的请求在此拦截
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		userID, err := a.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := a.users.Get(userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "user not found")
			c.Abort()
			return
		}
		if !user.IsActive {
			respondError(c, http.StatusForbidden, "user account is inactive")
			c.Abort()
			return
		}

		c.Set(currentUserContextKey, *user)
		c.Next()
	}
}

// currentUser 取出 AuthRequired 放入上下文的用户
func currentUser(c *gin.Context) db.User {
	value, _ := c.Get(currentUserContextKey)
	user, _ := value.(db.User)
	return user
}

// currentActor 将当前用户转换为业务层的主体身份
func currentActor(c *gin.Context) service.Actor {
	user := currentUser(c)
	return service.Actor{ID: user.ID, Superuser: user.IsSuperuser}
}
