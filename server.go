//go:build !cli

package main

import (
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"backoffice.GO/api"
	_ "backoffice.GO/api/graphql"
	_ "backoffice.GO/api/inventory"
	_ "backoffice.GO/api/purchase"
	_ "backoffice.GO/api/settlement"
	_ "backoffice.GO/api/transfer"
	_ "backoffice.GO/api/unit"
	"backoffice.GO/config"
	"backoffice.GO/core/auth"
	"backoffice.GO/core/cache"
	_ "backoffice.GO/custom"
)

func main() {
	config.LoadEnv()
	cfg := config.App()
	logger := config.MustLogger()
	defer logger.Sync()

	if err := config.InitRedis(); err != nil {
		logger.Warn("price cache falls back to memory", zap.Error(err))
	} else if config.RedisClient != nil {
		log.Println("Redis connection successful.")
	}

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	services := api.NewServices(db, cfg, logger, cache.NewPrices(config.RedisClient, cfg.PriceCacheTTL))

	e := echo.New()
	e.Validator = api.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			logger.Debug("request", zap.String("path", c.Path()), zap.Int64("duration_ms", duration))
			return err
		}
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	apiGroup.Use(api.ScopeMiddleware(cfg.CentralOutletID))
	api.ApplyModules(apiGroup, services)
	api.ApplyRoutes(e, services)

	fonts := []string{"standard", "slant", "small", "big", "doom"}
	figure.NewFigure(cfg.AppName, fonts[rand.Intn(len(fonts))], true).Print()

	log.Printf("Server running on :%s", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
