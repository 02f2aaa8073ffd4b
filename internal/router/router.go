package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/handler"
	"github.com/user/cinelog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	public := r.Group("")
	public.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		public.GET("/", h.Home)
		public.GET("/movies", h.Movies)
		public.GET("/movies/:id", h.MoviePage)
		public.GET("/movies/:id/reviews", h.MovieReviews)
		public.GET("/artists/:id", h.ArtistPage)
		public.GET("/search", h.Search)
	}

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 用户中心（需要登录）====================
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		dashboard.GET("", h.Dashboard)
		dashboard.GET("/watchlist", h.Watchlist)
		dashboard.GET("/history", h.History)
		dashboard.GET("/settings", h.Settings)
		dashboard.POST("/settings/username", h.UpdateUsername)
		dashboard.POST("/settings/password", h.UpdatePassword)
	}

	// ==================== API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		// 评分/评论（写操作会把微服务故障暴露给调用方）
		api.POST("/movies/:id/rating", h.RateMovie)
		api.DELETE("/movies/:id/rating", h.UnrateMovie)
		api.POST("/movies/:id/review", h.ReviewMovie)
		api.DELETE("/movies/:id/review", h.UnreviewMovie)
		api.GET("/movies/:id/reviews", h.MovieReviewsAPI)

		// 想看/已看
		api.POST("/movies/:id/watchlist", h.AddToWatchlist)
		api.DELETE("/movies/:id/watchlist", h.RemoveFromWatchlist)
		api.POST("/movies/:id/watched", h.MarkWatched)
		api.DELETE("/movies/:id/watched", h.UnmarkWatched)

		// 搜索与类型（suggest 不能挂在 /movies 下，会和 :id 通配冲突）
		api.GET("/search/suggest", h.MovieSuggest)
		api.GET("/genres", h.Genres)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", h.AdminDashboard)
		admin.GET("/users", h.AdminUsers)
		admin.POST("/users/:id/role", h.AdminUserUpdateRole)
		admin.DELETE("/users/:id", h.AdminUserDelete)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"mul": func(a, b int) int { return a * b },
		"seq": func(from, to int) []int {
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "movies", "movie", "movie_reviews", "artist", "search", "404",
		"login", "register",
		"dashboard", "watchlist", "history", "settings",
		"admin_dashboard", "admin_users",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
