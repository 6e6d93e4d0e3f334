package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/middleware"
)

// currentUser extracts the authenticated caller's id and role from the
// context. Returns false when the auth middleware did not run.
func currentUser(ctx *gin.Context) (int64, models.RoleType, bool) {
	idValue, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		return 0, "", false
	}
	roleValue, exists := ctx.Get(middleware.ContextRoleType)
	if !exists {
		return 0, "", false
	}
	userID, ok := idValue.(int64)
	if !ok {
		return 0, "", false
	}
	role, ok := roleValue.(string)
	if !ok {
		return 0, "", false
	}
	return userID, models.RoleType(role), true
}

// pathID parses a positive int64 path parameter
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
