// Package store implements durable product persistence over MongoDB with
// uniqueness enforcement on barcode and (source, externalId).
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodscan/internal/models"
)

var (
	// ErrDuplicate signals a uniqueness violation on barcode or
	// (source, externalId). Under a concurrent first-scan race this means
	// "someone else just created it".
	ErrDuplicate = errors.New("product already exists")

	// ErrNotFound signals an update against a nonexistent product id. A plain
	// lookup miss is reported as a nil product, not as this error.
	ErrNotFound = errors.New("product not found")
)

type ProductStore struct {
	collection *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{collection: db.Collection("products")}
}

// FindByBarcode returns the product with the given barcode, or nil when no
// such product exists.
func (s *ProductStore) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := s.collection.FindOne(ctx, bson.M{"barcode": barcode}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by barcode %s: %w", barcode, err)
	}
	return &product, nil
}

// Create inserts a new product, assigning id and timestamps. A uniqueness
// violation is reported as ErrDuplicate.
func (s *ProductStore) Create(ctx context.Context, data models.ProductData) (*models.Product, error) {
	now := time.Now().UTC()
	product := newProduct(data, now)

	res, err := s.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("create product %s: %w", data.Barcode, ErrDuplicate)
		}
		return nil, fmt.Errorf("create product %s: %w", data.Barcode, err)
	}

	product.ID = res.InsertedID.(primitive.ObjectID)
	return &product, nil
}

// Update merges the non-nil fields into the product and bumps updatedAt.
func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	set := buildUpdateDocument(update)
	set["updatedAt"] = time.Now().UTC()

	var updated models.Product
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("update product %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id.Hex(), err)
	}
	return &updated, nil
}

// FindOrCreate finds the product by barcode and creates it on miss. The
// find-then-create pair is not atomic: a concurrent creator can win the
// race, in which case the resulting ErrDuplicate should be treated as "the
// row now exists" and re-read by the caller.
func (s *ProductStore) FindOrCreate(ctx context.Context, barcode string, data models.ProductData) (*models.Product, error) {
	existing, err := s.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	data.Barcode = barcode
	return s.Create(ctx, data)
}

// List returns a page of products ordered by creation time, newest first.
// Administrative use only; not on the lookup path.
func (s *ProductStore) List(ctx context.Context, page, limit int64) ([]models.Product, int64, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func newProduct(data models.ProductData, now time.Time) models.Product {
	return models.Product{
		Barcode:       data.Barcode,
		Name:          data.Name,
		Brand:         data.Brand,
		Description:   data.Description,
		Ingredients:   models.StringList(orEmpty(data.Ingredients)),
		HealthScore:   data.HealthScore,
		Allergens:     models.StringList(orEmpty(data.Allergens)),
		Warnings:      models.StringList(orEmpty(data.Warnings)),
		NutritionInfo: data.NutritionInfo,
		ImageURL:      data.ImageURL,
		Source:        data.Source,
		ExternalID:    data.ExternalID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func buildUpdateDocument(update models.ProductUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Ingredients != nil {
		set["ingredients"] = models.StringList(orEmpty(*update.Ingredients))
	}
	if update.HealthScore != nil {
		set["healthScore"] = *update.HealthScore
	}
	if update.Allergens != nil {
		set["allergens"] = models.StringList(orEmpty(*update.Allergens))
	}
	if update.Warnings != nil {
		set["warnings"] = models.StringList(orEmpty(*update.Warnings))
	}
	if update.NutritionInfo != nil {
		set["nutritionInfo"] = update.NutritionInfo
	}
	if update.ImageURL != nil {
		set["imageUrl"] = *update.ImageURL
	}
	return set
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
