// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatcore-go/internal/config"
	"chatcore-go/internal/handler"
	"chatcore-go/internal/middleware"
	"chatcore-go/internal/model"
	"chatcore-go/internal/repository"
	"chatcore-go/internal/service"
	"chatcore-go/internal/store"
	"chatcore-go/pkg/database"
	"chatcore-go/pkg/llm"
	"chatcore-go/pkg/log"
	"chatcore-go/pkg/token"
	"chatcore-go/pkg/wiki"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := database.DB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal("用户表迁移失败", err)
	}

	// 4. 初始化进程内状态存储（仅进程生命周期内有效，重启即清空）
	limiter := store.NewRateLimiter(cfg.Chat.RateLimitPerMinute)
	sessions := store.NewSessionStore(time.Duration(cfg.Chat.SessionTimeoutHours) * time.Hour)
	history := store.NewHistoryLog(cfg.Chat.MaxHistoryEntries)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	userRepository := repository.NewUserRepository(database.DB)
	userService := service.NewUserService(userRepository, jwtManager, database.RDB)

	tracker := service.NewContextTracker()
	knowledge := service.NewKnowledgeSource(wiki.NewClient(cfg.Wikipedia))

	// 生成式提供方在启动时一次性选定：有 API key 则可用，否则注入固定不可用的实现
	var generative service.GenerativeSource
	if cfg.LLM.APIKey != "" {
		generative = service.NewGenerativeSource(llm.NewClient(cfg.LLM))
		log.Info("生成式提供方已配置")
	} else {
		generative = service.NewUnavailableSource()
		log.Warnf("未配置生成式提供方 API key，对话将以知识源与回退回复运行")
	}

	extTimeout := time.Duration(cfg.Chat.ExternalTimeoutSeconds) * time.Second
	router := service.NewResponseRouter(knowledge, generative, tracker, extTimeout)
	chatService := service.NewChatService(limiter, sessions, tracker, router, history, cfg.Chat.MaxMessageLength)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 7. 注册路由
	chatHandler := handler.NewChatHandler(chatService, jwtManager, cfg.Chat.MaxMessageLength)
	historyHandler := handler.NewHistoryHandler(history)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService)
	healthHandler := handler.NewHealthHandler(generative)

	r.GET("/health", healthHandler.Health)

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", authHandler.RefreshToken)
		}

		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, userService))
			{
				authed.GET("/me", userHandler.GetProfile)
				authed.POST("/changePassword", userHandler.ChangePassword)
				authed.POST("/logout", userHandler.Logout)
			}
		}

		// Chat 路由（对话主通道，匿名可用，按客户端 IP 限流）
		apiV1.POST("/chat", chatHandler.Chat)

		// History 路由组，需要认证
		historyGroup := apiV1.Group("/history")
		historyGroup.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			historyGroup.GET("", historyHandler.GetHistory)
			historyGroup.POST("/clear", historyHandler.ClearHistory)
		}
	}

	// Chat 路由 (WebSocket)
	r.GET("/ws/chat/:token", chatHandler.HandleWebsocket)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
