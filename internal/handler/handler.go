package handler

import (
	"database/sql"

	"cnadmin/internal/auth"
	"cnadmin/internal/cache"
	"cnadmin/internal/config"
	"cnadmin/internal/dept"
	"cnadmin/internal/iputil"
	"cnadmin/internal/loginlog"
	"cnadmin/internal/middleware"
	"cnadmin/internal/observability"
	"cnadmin/internal/online"
	"cnadmin/internal/role"
	"cnadmin/internal/session"
	"cnadmin/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type controllers struct {
	user     *user.UserController
	online   *online.OnlineController
	loginLog *loginlog.LoginLogController
	role     *role.RoleController
	dept     *dept.DeptController
}

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, publisher loginlog.Publisher, redisClient *redis.Client, locator iputil.Locator, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if observability.GlobalMetrics != nil {
		r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))
	}

	sessions := session.NewHelper(
		auth.NewTokenIssuer(cfg.JWT.Secret, cfg.Session.TTL),
		cache.NewSessionStore(redisClient, cfg.Session.TTL),
		locator,
		session.WithTokenHeader(cfg.Session.TokenHeader),
	)

	// Initialize services
	userService := user.NewUserService(user.NewUserRepository(), db)
	loginLogService := loginlog.NewLoginLogService(loginlog.NewLoginLogRepository(), db, publisher)
	roleService := role.NewRoleService(role.NewRoleRepository(), db)
	deptService := dept.NewDeptService(dept.NewDeptRepository(), db)

	// Initialize controllers
	ctrls := controllers{
		user:     user.NewUserController(userService, sessions, loginLogService),
		online:   online.NewOnlineController(sessions),
		loginLog: loginlog.NewLoginLogController(loginLogService),
		role:     role.NewRoleController(roleService, sessions),
		dept:     dept.NewDeptController(deptService, sessions),
	}

	setupRoutes(r, ctrls, sessions, redisClient)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, ctrls controllers, sessions *session.Helper, redisClient *redis.Client) {
	authRequired := middleware.SessionAuth(sessions)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login",
			middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiter(), middleware.ByClientIP),
			ctrls.user.Login,
		)
		authGroup.GET("/user/info", authRequired, ctrls.user.Info)
		authGroup.POST("/logout", authRequired, ctrls.user.Logout)
	}

	protected := r.Group("", authRequired)
	reads := protected.Group("",
		middleware.RateLimiterMiddleware(redisClient, middleware.GenerousRateLimiter(), middleware.Scoped("read", middleware.ByLoginUser(sessions))))
	writes := protected.Group("",
		middleware.RateLimiterMiddleware(redisClient, middleware.ModerateRateLimiter(), middleware.ByLoginUser(sessions)))

	reads.GET("/monitor/online/user", ctrls.online.List)
	reads.GET("/monitor/log/login", ctrls.loginLog.Page)
	writes.DELETE("/monitor/online/user/:token", ctrls.online.Kickout)

	reads.GET("/system/role", ctrls.role.List)
	reads.GET("/system/role/:id", ctrls.role.Get)
	writes.POST("/system/role", ctrls.role.Create)
	writes.PUT("/system/role/:id", ctrls.role.Update)
	writes.DELETE("/system/role/:id", ctrls.role.Delete)

	reads.GET("/system/dept", ctrls.dept.List)
	reads.GET("/system/dept/export", ctrls.dept.Export)
	reads.GET("/system/dept/:id", ctrls.dept.Get)
	writes.POST("/system/dept", ctrls.dept.Create)
	writes.PUT("/system/dept/:id", ctrls.dept.Update)
	writes.DELETE("/system/dept/:id", ctrls.dept.Delete)
}
