// Standalone GraphQL server. Run with: go run ./cmd/graphql
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"

	"backoffice.GO/api"
	graphqlApi "backoffice.GO/api/graphql"
	"backoffice.GO/config"
	"backoffice.GO/core/cache"
)

func main() {
	config.LoadEnv()
	cfg := config.App()
	if err := config.InitRedis(); err != nil {
		log.Printf("price cache falls back to memory: %v", err)
	}

	db, err := config.NewDB()
	if err != nil {
		log.Fatal("db:", err)
	}
	services := api.NewServices(db, cfg, config.MustLogger(), cache.NewPrices(config.RedisClient, cfg.PriceCacheTTL))

	e := echo.New()
	graphqlApi.RegisterGraphQLRoutes(e, services)

	// ASCII banner on start (random font each run)
	gqlFonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom"}
	fig := figure.NewFigure("Backoffice GQL ->", gqlFonts[rand.Intn(len(gqlFonts))], true)
	fig.Print()
	fmt.Println("Standalone GraphQL server")

	log.Printf("GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground", cfg.Port, cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
