package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"foodscan/internal/models"
	"foodscan/internal/pipeline"
	"foodscan/internal/store"
)

// ProductStore is the store surface the handlers use directly; the pipeline
// owns its own view of the store.
type ProductStore interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	Create(ctx context.Context, data models.ProductData) (*models.Product, error)
	List(ctx context.Context, page, limit int64) ([]models.Product, int64, error)
}

// ProductPipeline resolves barcodes through the external source and drives
// bulk imports.
type ProductPipeline interface {
	FetchAndStoreProduct(ctx context.Context, barcode string) (*models.Product, error)
	ImportProductsBySearch(ctx context.Context, searchTerms []string, limitPerTerm int) *pipeline.BulkImportResult
}

/* =======================
   REQUEST MODELS
======================= */

type BulkImportRequest struct {
	SearchTerms  []string `json:"searchTerms" binding:"required,min=1,max=5,dive,required"`
	LimitPerTerm *int     `json:"limitPerTerm" binding:"omitempty,min=1,max=50"`
}

type CreateProductRequest struct {
	Barcode       string                `json:"barcode" binding:"required"`
	Name          string                `json:"name" binding:"required"`
	Brand         string                `json:"brand"`
	Description   string                `json:"description"`
	Ingredients   []string              `json:"ingredients"`
	Allergens     []string              `json:"allergens"`
	NutritionInfo *models.NutritionInfo `json:"nutritionInfo"`
	ImageURL      string                `json:"imageUrl"`
}

/* =======================
   LOOKUP
======================= */

// GET /api/products/barcode/:barcode — local store only, no external fetch.
func GetProductByBarcode(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/barcode/:barcode"
		defer handlePanic(c, route)

		barcode := strings.TrimSpace(c.Param("barcode"))
		if !isValidBarcode(barcode) {
			respondWithError(c, http.StatusBadRequest, route, "INVALID_BARCODE")
			return
		}

		product, err := products.FindByBarcode(c.Request.Context(), barcode)
		if err != nil {
			log.Printf("[%s] store error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "INTERNAL_ERROR")
			return
		}
		if product == nil {
			respondWithError(c, http.StatusNotFound, route, "PRODUCT_NOT_FOUND")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// POST /api/products/barcode/:barcode/fetch — full pipeline: local lookup,
// external fetch on miss, scoring, persistence.
func FetchProduct(p ProductPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/barcode/:barcode/fetch"
		defer handlePanic(c, route)

		barcode := strings.TrimSpace(c.Param("barcode"))
		if !isValidBarcode(barcode) {
			respondWithError(c, http.StatusBadRequest, route, "INVALID_BARCODE")
			return
		}

		product, err := p.FetchAndStoreProduct(c.Request.Context(), barcode)
		if err != nil {
			log.Printf("[%s] pipeline error: %v", route, err)
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, http.StatusConflict, route, "PRODUCT_CONFLICT")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "INTERNAL_ERROR")
			return
		}
		if product == nil {
			respondWithError(c, http.StatusNotFound, route, "PRODUCT_NOT_FOUND")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   BULK IMPORT
======================= */

// POST /api/products/bulk-import
func BulkImport(p ProductPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/bulk-import"
		defer handlePanic(c, route)

		var req BulkImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				respondWithError(c, http.StatusBadRequest, route, "VALIDATION_ERROR: "+validationErrors[0].Field())
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		terms := make([]string, 0, len(req.SearchTerms))
		for _, term := range req.SearchTerms {
			trimmed := strings.TrimSpace(term)
			if trimmed == "" {
				respondWithError(c, http.StatusBadRequest, route, "search terms must be non-empty")
				return
			}
			terms = append(terms, trimmed)
		}

		limitPerTerm := 10
		if req.LimitPerTerm != nil {
			// The omitempty tag lets an explicit 0 through; re-check the range.
			if *req.LimitPerTerm < 1 || *req.LimitPerTerm > 50 {
				respondWithError(c, http.StatusBadRequest, route, "limitPerTerm must be between 1 and 50")
				return
			}
			limitPerTerm = *req.LimitPerTerm
		}

		result := p.ImportProductsBySearch(c.Request.Context(), terms, limitPerTerm)
		c.JSON(http.StatusOK, result)
	}
}

/* =======================
   ADMIN
======================= */

// GET /api/products?page=&limit= — administrative listing, newest first.
func GetAllProducts(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		items, total, err := products.List(c.Request.Context(), page, limit)
		if err != nil {
			log.Printf("[%s] store error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": items,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// POST /api/products — manual product entry; the pipeline never writes here.
func CreateProduct(products ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				respondWithError(c, http.StatusBadRequest, route, "VALIDATION_ERROR: "+validationErrors[0].Field())
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		barcode := strings.TrimSpace(req.Barcode)
		if !isValidBarcode(barcode) {
			respondWithError(c, http.StatusBadRequest, route, "INVALID_BARCODE")
			return
		}

		product, err := products.Create(c.Request.Context(), models.ProductData{
			Barcode:       barcode,
			Name:          strings.TrimSpace(req.Name),
			Brand:         strings.TrimSpace(req.Brand),
			Description:   strings.TrimSpace(req.Description),
			Ingredients:   req.Ingredients,
			Allergens:     req.Allergens,
			Warnings:      []string{},
			NutritionInfo: req.NutritionInfo,
			ImageURL:      req.ImageURL,
			Source:        models.SourceManual,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, http.StatusConflict, route, "PRODUCT_CONFLICT")
				return
			}
			log.Printf("[%s] store error: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   HEALTH
======================= */

func Healthz(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
