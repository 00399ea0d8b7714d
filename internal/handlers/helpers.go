package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid pagination params")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > 100 {
			return 0, 0, errors.New("invalid pagination params")
		}
		limit = l
	}

	return page, limit, nil
}

// isValidBarcode accepts the digit strings the scanner produces: pure
// digits, 8 to 32 characters.
func isValidBarcode(barcode string) bool {
	if len(barcode) < 8 || len(barcode) > 32 {
		return false
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
