package handler

import (
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/model"
	"SendBay/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListUsers returns every account (admin only).
func ListUsers(c *gin.Context) {
	users, err := service.ListUsers()
	if err != nil {
		FailService(c, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	utils.Success(c, out)
}

// CreateUser creates an account on behalf of an admin.
func CreateUser(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	user, err := service.CreateUser(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Created(c, userResponse(user))
}

// UpdateUser applies a partial account update (admin only).
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		role := model.RoleUser
		if *req.Role == model.RoleAdmin {
			role = model.RoleAdmin
		}
		updates["role"] = role
	}
	if req.Active != nil {
		updates["is_active"] = *req.Active
	}
	if req.Password != nil && *req.Password != "" {
		updates["pass_word"] = *req.Password
	}
	if len(updates) == 0 {
		utils.Fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := service.AdminUpdateUser(id, updates)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, userResponse(user))
}

// DeleteUser removes an account and everything it owns (admin only).
// Admins cannot delete their own account.
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == utils.CurrentUserID(c) {
		utils.Fail(c, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	if err := service.DeleteUser(c.Request.Context(), id); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}
