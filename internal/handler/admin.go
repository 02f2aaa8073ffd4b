package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

// ==================== 管理后台 ====================

// AdminDashboard 后台首页
func (h *Handler) AdminDashboard(c *gin.Context) {
	// 获取统计数据
	userCount, _ := h.Repos.User.Count()
	movieCount, _ := h.Repos.Movie.Count()
	artistCount, _ := h.Repos.Artist.Count()

	c.HTML(http.StatusOK, "admin_dashboard.html", h.RenderData(c, gin.H{
		"Title":       "管理后台 - " + h.Config.SiteName,
		"UserID":      middleware.GetUserID(c),
		"UserCount":   userCount,
		"MovieCount":  movieCount,
		"ArtistCount": artistCount,
	}))
}

// AdminUsers 用户管理
func (h *Handler) AdminUsers(c *gin.Context) {
	users, _ := h.Repos.User.ListAll()

	c.HTML(http.StatusOK, "admin_users.html", h.RenderData(c, gin.H{
		"Title":  "用户管理 - " + h.Config.SiteName,
		"UserID": middleware.GetUserID(c),
		"Users":  users,
	}))
}

// AdminUserUpdateRole 更新用户角色
func (h *Handler) AdminUserUpdateRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的 ID")
		return
	}

	role := c.PostForm("role")
	if role != "user" && role != "admin" {
		utils.BadRequest(c, "无效的角色")
		return
	}

	// 不允许修改自己的角色，防止锁死后台
	if userID == middleware.GetUserID(c) {
		utils.BadRequest(c, "不能修改自己的角色")
		return
	}

	if err := h.Repos.User.UpdateRole(userID, role); err != nil {
		utils.InternalServerError(c, "更新失败")
		return
	}

	utils.Success(c, gin.H{"id": userID, "role": role})
}

// AdminUserDelete 删除用户
func (h *Handler) AdminUserDelete(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的 ID")
		return
	}

	if userID == middleware.GetUserID(c) {
		utils.BadRequest(c, "不能删除自己")
		return
	}

	if err := h.Repos.User.Delete(userID); err != nil {
		utils.InternalServerError(c, "删除失败")
		return
	}

	utils.Success(c, nil)
}
