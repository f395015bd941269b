package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"sales_api/api"
	"sales_api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	r := gin.Default()
	if err := api.InitRoutes(r, cfg); err != nil {
		panic(fmt.Errorf("error wiring routes: %v", err))
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
