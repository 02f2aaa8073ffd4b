package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// rateRequest 评分请求
type rateRequest struct {
	Value int `json:"value" form:"value" binding:"required,min=1,max=10"`
}

// reviewRequest 评论请求
type reviewRequest struct {
	Title   string `json:"title" form:"title" binding:"max=120"`
	Content string `json:"content" form:"content" binding:"required,min=1,max=5000"`
}

// RateMovie 给电影评分
func (h *Handler) RateMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	var req rateRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "评分必须在 1-10 之间")
		return
	}

	if err := h.Ratings.UpsertRating(c.Request.Context(), userID, movieID, req.Value); err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			utils.BadRequest(c, err.Error())
			return
		}
		// 写操作必须把远端故障暴露给用户
		utils.ServiceUnavailable(c, "评分服务暂时不可用，请稍后重试")
		return
	}

	utils.Success(c, gin.H{"movie_id": movieID, "value": req.Value})
}

// UnrateMovie 删除评分（远端本来就没有评分时同样视为成功）
func (h *Handler) UnrateMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Ratings.DeleteRating(c.Request.Context(), userID, movieID); err != nil {
		utils.ServiceUnavailable(c, "评分服务暂时不可用，请稍后重试")
		return
	}

	utils.Success(c, nil)
}

// ReviewMovie 发表/更新评论
func (h *Handler) ReviewMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	var req reviewRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "评论内容不能为空")
		return
	}

	if err := h.Reviews.UpsertReview(c.Request.Context(), userID, movieID, req.Title, req.Content); err != nil {
		if errors.Is(err, service.ErrEmptyReview) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.ServiceUnavailable(c, "评论服务暂时不可用，请稍后重试")
		return
	}

	utils.Success(c, gin.H{"movie_id": movieID})
}

// UnreviewMovie 删除评论
func (h *Handler) UnreviewMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Reviews.DeleteReview(c.Request.Context(), userID, movieID); err != nil {
		utils.ServiceUnavailable(c, "评论服务暂时不可用，请稍后重试")
		return
	}

	utils.Success(c, nil)
}

// MovieReviewsAPI 分页获取电影评论（JSON）
func (h *Handler) MovieReviewsAPI(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "5"))

	result, err := h.Reviews.GetReviewsPage(c.Request.Context(), movieID, page, size)
	if err != nil {
		utils.ServiceUnavailable(c, "评论服务暂时不可用，请稍后重试")
		return
	}

	utils.Success(c, result)
}

// AddToWatchlist 添加到想看清单
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Watch.AddToWatchlist(userID, movieID); err != nil {
		utils.InternalServerError(c, "操作失败")
		return
	}

	utils.Success(c, nil)
}

// RemoveFromWatchlist 从想看清单移除
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Watch.RemoveFromWatchlist(userID, movieID); err != nil {
		utils.InternalServerError(c, "操作失败")
		return
	}

	utils.Success(c, nil)
}

// MarkWatched 标记为已看
func (h *Handler) MarkWatched(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	// 可选的观看日期，缺省为今天
	watchedOn := time.Now()
	if dateStr := c.PostForm("watched_on"); dateStr != "" {
		if parsed, err := time.Parse("2006-01-02", dateStr); err == nil {
			watchedOn = parsed
		}
	}

	if err := h.Watch.MarkWatched(userID, movieID, watchedOn); err != nil {
		utils.InternalServerError(c, "操作失败")
		return
	}

	utils.Success(c, nil)
}

// UnmarkWatched 取消已看标记
func (h *Handler) UnmarkWatched(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Watch.UnmarkWatched(userID, movieID); err != nil {
		utils.InternalServerError(c, "操作失败")
		return
	}

	utils.Success(c, nil)
}

// MovieSuggest 搜索建议（标题前缀匹配）
func (h *Handler) MovieSuggest(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		utils.Success(c, []string{})
		return
	}

	movies, found := h.searchCache.Get("suggest:" + keyword)
	if !found {
		var err error
		movies, err = h.Repos.Movie.SearchByTitle(keyword, 8)
		if err != nil {
			utils.Success(c, []string{})
			return
		}
		h.searchCache.Set("suggest:"+keyword, movies)
	}

	utils.Success(c, movies)
}

// Genres 类型列表（带缓存）
func (h *Handler) Genres(c *gin.Context) {
	const cacheKey = "genres:all"
	if cached, found := utils.CacheGet(cacheKey); found {
		if genres, ok := cached.([]string); ok {
			utils.Success(c, genres)
			return
		}
	}

	genres, err := h.Repos.Movie.ListGenres()
	if err != nil {
		utils.InternalServerError(c, "获取类型失败")
		return
	}

	utils.CacheSet(cacheKey, genres, 30*time.Minute)
	utils.Success(c, genres)
}
