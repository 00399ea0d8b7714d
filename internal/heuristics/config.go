package heuristics

// Scores run 1-10 (1 = worst, 10 = best) from a baseline of 7.
const (
	baseScore = 7
	minScore  = 1
	maxScore  = 10
)

// Nutrition thresholds, per serving.
const (
	sodiumThreshold       = 500 // mg
	saturatedFatThreshold = 5   // g
	sugarsThreshold       = 15  // g
	lowCaloriesThreshold  = 100
)

var concerningIngredients = []string{
	"high fructose corn syrup",
	"hydrogenated oil",
	"partially hydrogenated",
	"artificial flavor",
	"artificial color",
	"sodium benzoate",
	"potassium sorbate",
	"msg",
	"monosodium glutamate",
	"food coloring",
	"caramel color",
	"sucralose",
	"aspartame",
	"acesulfame potassium",
	"propylene glycol",
	"sodium nitrate",
	"sodium nitrite",
	"bht",
	"bha",
}

var beneficialIngredients = []string{
	"organic",
	"whole grain",
	"whole wheat",
	"extra virgin olive oil",
	"natural flavor",
	"raw",
	"unprocessed",
	"cold pressed",
	"grass fed",
	"free range",
	"wild caught",
	"vine ripened",
	"non gmo",
	"no artificial",
	"gluten free",
	"dairy free",
}

type labeledWarning struct {
	term    string
	warning string
}

// Allergen warnings are checked in declaration order; only the first
// allergy-class warning across the whole ingredient list is kept.
var allergenWarnings = []labeledWarning{
	{"milk", "Contains dairy - may cause allergic reactions"},
	{"wheat", "Contains gluten - may cause celiac reactions"},
	{"soy", "Contains soy - common allergen"},
	{"peanut", "Contains peanuts - severe allergic reactions"},
	{"tree nut", "Contains tree nuts - severe allergic reactions"},
	{"egg", "Contains eggs - common allergen"},
	{"fish", "Contains fish - may trigger allergic reactions"},
	{"shellfish", "Contains shellfish - may trigger allergic reactions"},
}

var substanceWarnings = []labeledWarning{
	{"aspartame", "Contains artificial sweetener - may cause sensitivities"},
	{"high fructose corn syrup", "Contains refined sugar - may impact metabolism"},
	{"hydrogenated", "Contains hydrogenated oils - contains trans fats"},
	{"msg", "Contains MSG - may cause sensitivities in some people"},
	{"sodium nitrate", "Contains sodium nitrite - processed meat preservative"},
}

const maxWarnings = 5
