package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/gateway"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos       *repository.Repositories
	Config      *config.Config
	Activity    *service.ActivityService
	Ratings     *service.RatingService
	Reviews     *service.ReviewService
	Watch       *service.WatchService
	MovieSvc    *service.MovieService
	Ranking     *service.RankingService
	searchCache *utils.LRUCache[[]*model.Movie]
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 两个外部微服务的网关
	ratingGateway := gateway.NewRatingClient(cfg.RatingServiceURL, cfg.RemoteTimeout)
	reviewGateway := gateway.NewReviewClient(cfg.ReviewServiceURL, cfg.RemoteTimeout)

	// 活动记录器
	activity := service.NewActivityService(repos.Activity)

	// 评分/评论编排服务
	ratings := service.NewRatingService(ratingGateway, reviewGateway, activity)
	reviews := service.NewReviewService(reviewGateway, ratingGateway, activity)

	// 观影服务与详情页聚合
	watch := service.NewWatchService(repos.Watchlist, repos.Watched, activity)
	movieSvc := service.NewMovieService(repos.Movie, repos.Credit, repos.Watchlist, repos.Watched, ratings, reviews)

	// 活动榜单
	ranking := service.NewRankingService(repos.Movie, repos.Activity)

	return &Handler{
		Repos:       repos,
		Config:      cfg,
		Activity:    activity,
		Ratings:     ratings,
		Reviews:     reviews,
		Watch:       watch,
		MovieSvc:    movieSvc,
		Ranking:     ranking,
		searchCache: utils.NewLRUCache[[]*model.Movie](1000, time.Hour),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch {
	case path == "/":
		return "home"
	case strings.HasPrefix(path, "/movies"):
		return "movies"
	case strings.HasPrefix(path, "/artists"):
		return "artists"
	case strings.HasPrefix(path, "/dashboard"):
		return "user"
	default:
		return ""
	}
}

// ==================== 公开页面 ====================

// Home 首页：活动榜单 + 新片
func (h *Handler) Home(c *gin.Context) {
	topMovies := h.Ranking.TopMovies()

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":     h.Config.SiteName + " - 记录你看过的每一部电影",
		"TopMovies": topMovies,
	}))
}

// Movies 电影列表页
func (h *Handler) Movies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	const pageSize = 24

	movies, _ := h.Repos.Movie.List(pageSize, page*pageSize)

	c.HTML(http.StatusOK, "movies.html", h.RenderData(c, gin.H{
		"Title":  "电影 - " + h.Config.SiteName,
		"Movies": movies,
		"Page":   page,
	}))
}

// MoviePage 电影详情页：本地目录数据 + 远端评分评论聚合
func (h *Handler) MoviePage(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	userID := middleware.GetUserID(c)
	page, err := h.MovieSvc.BuildMoviePage(c.Request.Context(), movieID, userID)
	if err != nil || page == nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	c.HTML(http.StatusOK, "movie.html", h.RenderData(c, gin.H{
		"Title": page.Movie.Title + " - " + h.Config.SiteName,
		"Page":  page,
	}))
}

// MovieReviews 电影评论分页页面
// 评论列表是主视图：评论服务不可用时向用户展示错误横幅，而不是空列表
func (h *Handler) MovieReviews(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	movie, err := h.Repos.Movie.FindByID(movieID)
	if err != nil || movie == nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "5"))

	reviewPage, err := h.Reviews.GetReviewsPage(c.Request.Context(), movieID, pageNum, size)
	if err != nil {
		c.HTML(http.StatusOK, "movie_reviews.html", h.RenderData(c, gin.H{
			"Title": movie.Title + " 的评论 - " + h.Config.SiteName,
			"Movie": movie,
			"Error": "评论服务暂时不可用，请稍后重试",
		}))
		return
	}

	c.HTML(http.StatusOK, "movie_reviews.html", h.RenderData(c, gin.H{
		"Title":   movie.Title + " 的评论 - " + h.Config.SiteName,
		"Movie":   movie,
		"Reviews": reviewPage,
	}))
}

// ArtistPage 影人详情页
func (h *Handler) ArtistPage(c *gin.Context) {
	artistID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "影人未找到 - " + h.Config.SiteName,
		}))
		return
	}

	artist, err := h.Repos.Artist.FindByID(artistID)
	if err != nil || artist == nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "影人未找到 - " + h.Config.SiteName,
		}))
		return
	}

	// 作品集
	credits, _ := h.Repos.Credit.ListByArtist(artistID)

	c.HTML(http.StatusOK, "artist.html", h.RenderData(c, gin.H{
		"Title":   artist.Name + " - " + h.Config.SiteName,
		"Artist":  artist,
		"Credits": credits,
	}))
}

// Search 搜索页（电影 + 影人）
func (h *Handler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	// 电影搜索结果走 LRU 缓存
	movies, found := h.searchCache.Get(keyword)
	if !found {
		var err error
		movies, err = h.Repos.Movie.SearchByTitle(keyword, 30)
		if err == nil {
			h.searchCache.Set(keyword, movies)
		}
	}

	artists, _ := h.Repos.Artist.SearchByName(keyword, 10)

	c.HTML(http.StatusOK, "search.html", h.RenderData(c, gin.H{
		"Title":   keyword + " - 搜索结果 - " + h.Config.SiteName,
		"Keyword": keyword,
		"Movies":  movies,
		"Artists": artists,
	}))
}

// ==================== 认证页面 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "登录 - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	if redirect == "" {
		redirect = "/"
	}

	// 查找用户
	user, err := h.Repos.User.FindByEmail(email)
	if err != nil || user == nil {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title": "登录 - " + h.Config.SiteName,
			"Error": "邮箱或密码错误",
		}))
		return
	}

	// 验证密码
	if !h.Repos.User.CheckPassword(user, password) {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title": "登录 - " + h.Config.SiteName,
			"Error": "邮箱或密码错误",
		}))
		return
	}

	// 生成 JWT
	token, err := h.generateToken(user)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", h.RenderData(c, gin.H{
			"Title": "登录 - " + h.Config.SiteName,
			"Error": "登录失败，请重试",
		}))
		return
	}

	// 设置 Cookie (JWT)
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	// 保存 UserInfo 到 Session
	h.saveSessionUser(c, user)

	c.Redirect(http.StatusFound, redirect)
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	// 验证
	if password != confirmPassword {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "两次输入的密码不一致",
		}))
		return
	}

	if len(password) < 6 {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "密码至少需要 6 个字符",
		}))
		return
	}

	// 检查邮箱是否已存在
	existing, _ := h.Repos.User.FindByEmail(email)
	if existing != nil {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "该邮箱已被注册",
		}))
		return
	}

	// 创建用户
	// 未填写用户名时截取邮箱 @ 符号前的内容
	username := strings.TrimSpace(c.PostForm("username"))
	if username == "" {
		if parts := strings.Split(email, "@"); len(parts) > 0 {
			username = parts[0]
		}
	}

	user, err := h.Repos.User.Create(email, username, password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "注册失败，请重试",
		}))
		return
	}

	// 生成 JWT 并登录
	token, _ := h.generateToken(user)
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)
	h.saveSessionUser(c, user)

	c.Redirect(http.StatusFound, "/")
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// generateToken 生成 JWT
func (h *Handler) generateToken(user *model.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.Config.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Config.AppSecret))
}

// saveSessionUser 保存用户信息到 Session
func (h *Handler) saveSessionUser(c *gin.Context, user *model.User) {
	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	session.Save()
}

// ==================== 用户中心 ====================

// Dashboard 用户中心：想看/已看统计 + 最近动态
func (h *Handler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// 获取完整用户信息
	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}

	// 获取统计数据
	watchlistCount, watchedCount := h.Watch.Counts(userID)

	// 最近动态（关联电影标题用于展示）
	feed, _ := h.Activity.LatestFive(userID)
	feedMovies, _ := h.Repos.Movie.FindByIDs(service.DistinctMovieIDs(feed))

	// 远端统计（次要信息，服务不可用时显示为空）
	ratingStats := h.Ratings.GetUserStats(c.Request.Context(), userID)
	reviewStats := h.Reviews.GetUserStats(c.Request.Context(), userID)

	c.HTML(http.StatusOK, "dashboard.html", h.RenderData(c, gin.H{
		"Title":          "用户中心 - " + h.Config.SiteName,
		"User":           user,
		"WatchlistCount": watchlistCount,
		"WatchedCount":   watchedCount,
		"Feed":           feed,
		"FeedMovies":     feedMovies,
		"RatingStats":    ratingStats,
		"ReviewStats":    reviewStats,
	}))
}

// Watchlist 想看清单页
func (h *Handler) Watchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	items, _ := h.Watch.Watchlist(userID, 50, 0)

	c.HTML(http.StatusOK, "watchlist.html", h.RenderData(c, gin.H{
		"Title": "想看清单 - " + h.Config.SiteName,
		"Items": items,
	}))
}

// History 观影历史页
func (h *Handler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	records, _ := h.Watch.History(userID, 50, 0)

	c.HTML(http.StatusOK, "history.html", h.RenderData(c, gin.H{
		"Title":   "观影历史 - " + h.Config.SiteName,
		"History": records,
	}))
}

// Settings 账号设置
func (h *Handler) Settings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}

	c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
		"Title":   "账号设置 - " + h.Config.SiteName,
		"User":    user,
		"Success": c.Query("success"),
	}))
}

// UpdateUsername 修改用户名
func (h *Handler) UpdateUsername(c *gin.Context) {
	userID := middleware.GetUserID(c)
	newUsername := strings.TrimSpace(c.PostForm("username"))

	if newUsername == "" || len(newUsername) < 2 || len(newUsername) > 20 {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"Error": "用户名应在 2-20 个字符之间",
		}))
		return
	}

	if err := h.Repos.User.UpdateUsername(userID, newUsername); err != nil {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"Error": "用户名更新失败",
		}))
		return
	}

	// 更新 Session 中的用户名
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			su.Username = newUsername
			session.Set("userinfo", su)
			session.Save()
		}
	}

	c.Redirect(http.StatusFound, "/dashboard/settings?success=username")
}

// UpdatePassword 修改密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)
	currentPassword := c.PostForm("current_password")
	newPassword := c.PostForm("new_password")
	confirmPassword := c.PostForm("confirm_password")

	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}

	// 验证当前密码
	if !h.Repos.User.CheckPassword(user, currentPassword) {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"User":  user,
			"Error": "当前密码错误",
		}))
		return
	}

	if newPassword != confirmPassword {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"User":  user,
			"Error": "两次输入的新密码不一致",
		}))
		return
	}

	if len(newPassword) < 6 {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"User":  user,
			"Error": "新密码至少需要 6 个字符",
		}))
		return
	}

	if err := h.Repos.User.UpdatePassword(userID, newPassword); err != nil {
		c.HTML(http.StatusOK, "settings.html", h.RenderData(c, gin.H{
			"Title": "账号设置 - " + h.Config.SiteName,
			"User":  user,
			"Error": "密码更新失败",
		}))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard/settings?success=password")
}
