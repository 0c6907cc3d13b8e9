package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"authportal/api"
	"authportal/config"
	"authportal/dao"
	"authportal/internal/auth"
	"authportal/middleware"
	"authportal/model"
	"authportal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&model.User{}); err != nil {
		panic(err)
	}

	userDAO := dao.NewUserDAO(db)
	userService := service.NewUserService(userDAO)
	session := auth.NewSessionManager(config.RedisClient)
	userAPI := api.NewUserAPI(userService, session)

	r := gin.Default()
	r.LoadHTMLGlob(filepath.Join(configPath, config.GlobalConfig.Server.Templates))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", userAPI.Index)
	r.POST("/login", userAPI.Login)
	r.GET("/register", userAPI.RegisterPage)
	r.POST("/register", userAPI.Register)
	r.GET("/logout", userAPI.Logout)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(session))
	{
		protected.GET("/dashboard", userAPI.Dashboard)
	}

	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
