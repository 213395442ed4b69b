package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
)

type userUpdateRequest struct {
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// GetCurrentUser 返回当前登录用户
func (a *API) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

// ListUsers 分页返回用户列表，仅超级管理员可用
func (a *API) ListUsers(c *gin.Context) {
	if !currentActor(c).Superuser {
		respondServiceError(c, service.ErrForbidden)
		return
	}

	skip, limit := parsePagination(c)
	users, err := a.users.List(skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, newUserResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// GetUser 返回指定用户；仅本人或超级管理员可读
func (a *API) GetUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := currentActor(c)
	user, err := a.users.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !actor.CanAccess(user.ID) {
		respondServiceError(c, service.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// UpdateUser 更新指定用户资料
func (a *API) UpdateUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req userUpdateRequest
	if !bindJSON(c, &req, "invalid user payload") {
		return
	}

	user, err := a.users.Update(currentActor(c), id, service.UserUpdateInput{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// DeleteUser 删除指定用户及其全部数据，仅超级管理员可用
func (a *API) DeleteUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
