package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureProductIndexes creates the uniqueness indexes the store relies on:
// one barcode per product, and one row per (source, externalId) among
// products that carry an externalId. Manual entries have no externalId and
// stay outside the second index.
func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	barcodeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().
			SetName("barcode_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"barcode": bson.M{
					"$exists": true,
				},
			}),
	}

	sourceExternalIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "source", Value: 1},
			{Key: "externalId", Value: 1},
		},
		Options: options.Index().
			SetName("source_externalId_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"externalId": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureProductIndexes: creating product uniqueness indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{barcodeIndex, sourceExternalIDIndex})
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: product uniqueness indexes created")
	return nil
}
