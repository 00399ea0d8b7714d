package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provenance values for Product.Source.
const (
	SourceManual        = "manual"
	SourceOpenFoodFacts = "openfoodfacts"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Barcode       string             `bson:"barcode" json:"barcode"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients   StringList         `bson:"ingredients" json:"ingredients"`
	HealthScore   *int               `bson:"healthScore,omitempty" json:"healthScore,omitempty"`
	Allergens     StringList         `bson:"allergens" json:"allergens"`
	Warnings      StringList         `bson:"warnings" json:"warnings"`
	NutritionInfo *NutritionInfo     `bson:"nutritionInfo,omitempty" json:"nutritionInfo,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Source        string             `bson:"source" json:"source"`
	ExternalID    string             `bson:"externalId,omitempty" json:"externalId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NutritionInfo holds per-serving nutrition facts. Every field is optional;
// a nil pointer means the value was not reported, which is not the same as 0.
type NutritionInfo struct {
	Calories      *float64 `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein       *float64 `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbohydrates *float64 `bson:"carbohydrates,omitempty" json:"carbohydrates,omitempty"`
	Fat           *float64 `bson:"fat,omitempty" json:"fat,omitempty"`
	SaturatedFat  *float64 `bson:"saturatedFat,omitempty" json:"saturatedFat,omitempty"`
	TransFat      *float64 `bson:"transFat,omitempty" json:"transFat,omitempty"`
	Cholesterol   *float64 `bson:"cholesterol,omitempty" json:"cholesterol,omitempty"`
	Sodium        *float64 `bson:"sodium,omitempty" json:"sodium,omitempty"`
	DietaryFiber  *float64 `bson:"dietaryFiber,omitempty" json:"dietaryFiber,omitempty"`
	Sugars        *float64 `bson:"sugars,omitempty" json:"sugars,omitempty"`
	VitaminA      *float64 `bson:"vitaminA,omitempty" json:"vitaminA,omitempty"`
	VitaminC      *float64 `bson:"vitaminC,omitempty" json:"vitaminC,omitempty"`
	Calcium       *float64 `bson:"calcium,omitempty" json:"calcium,omitempty"`
	Iron          *float64 `bson:"iron,omitempty" json:"iron,omitempty"`
	Potassium     *float64 `bson:"potassium,omitempty" json:"potassium,omitempty"`
	ServingSize   string   `bson:"servingSize,omitempty" json:"servingSize,omitempty"`
}

// ProductData is the creation payload: everything a Product carries except
// the store-assigned id and timestamps.
type ProductData struct {
	Barcode       string         `bson:"barcode" json:"barcode"`
	Name          string         `bson:"name" json:"name"`
	Brand         string         `bson:"brand,omitempty" json:"brand,omitempty"`
	Description   string         `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients   []string       `bson:"ingredients" json:"ingredients"`
	HealthScore   *int           `bson:"healthScore,omitempty" json:"healthScore,omitempty"`
	Allergens     []string       `bson:"allergens" json:"allergens"`
	Warnings      []string       `bson:"warnings" json:"warnings"`
	NutritionInfo *NutritionInfo `bson:"nutritionInfo,omitempty" json:"nutritionInfo,omitempty"`
	ImageURL      string         `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Source        string         `bson:"source" json:"source"`
	ExternalID    string         `bson:"externalId,omitempty" json:"externalId,omitempty"`
}

// ProductUpdate is a partial update. Nil fields are left untouched. The
// barcode is immutable once set and is deliberately not updatable.
type ProductUpdate struct {
	Name          *string        `json:"name"`
	Brand         *string        `json:"brand"`
	Description   *string        `json:"description"`
	Ingredients   *[]string      `json:"ingredients"`
	HealthScore   *int           `json:"healthScore"`
	Allergens     *[]string      `json:"allergens"`
	Warnings      *[]string      `json:"warnings"`
	NutritionInfo *NutritionInfo `json:"nutritionInfo"`
	ImageURL      *string        `json:"imageUrl"`
}
