package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"foodscan/internal/config"
	"foodscan/internal/database"
	"foodscan/internal/handlers"
	"foodscan/internal/middleware"
	"foodscan/internal/openfoodfacts"
	"foodscan/internal/pipeline"
	"foodscan/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}

	products := store.NewProductStore(db)
	source := openfoodfacts.NewClient(
		config.AppEnv.OFFBaseURL,
		config.AppEnv.OFFUserAgent,
		config.AppEnv.OFFTimeout,
	)
	productPipeline := pipeline.New(products, source)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:8080",
			"http://localhost:8081",
			"http://localhost:8082",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", handlers.Healthz(db))

	generalLimit := middleware.GeneralRateLimiter()
	externalLimit := middleware.ExternalAPIRateLimiter()
	bulkLimit := middleware.BulkImportRateLimiter()

	api := r.Group("/api/products")
	{
		api.GET("/barcode/:barcode", generalLimit, handlers.GetProductByBarcode(products))
		api.POST("/barcode/:barcode/fetch", externalLimit, handlers.FetchProduct(productPipeline))
		api.POST("/bulk-import", bulkLimit, handlers.BulkImport(productPipeline))

		api.GET("", generalLimit, handlers.GetAllProducts(products))
		api.POST("", generalLimit, handlers.CreateProduct(products))
	}

	r.Run(":" + config.AppEnv.Port)
}
