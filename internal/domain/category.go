package domain

import "strings"

// Category is a member of the fixed category vocabulary.
type Category string

const (
	CategorySalary      Category = "Salary"
	CategoryRent        Category = "Rent"
	CategoryUtilities   Category = "Utilities"
	CategoryGroceries   Category = "Groceries"
	CategoryTransport   Category = "Transport"
	CategoryHealth      Category = "Health"
	CategoryBeauty      Category = "Beauty"
	CategoryLaundry     Category = "Laundry"
	CategoryWorkTools   Category = "Work Tools"
	CategoryRestaurants Category = "Restaurants"
	CategoryDelivery    Category = "Delivery"
	CategoryCinema      Category = "Cinema"
	CategoryConcerts    Category = "Concerts"
	CategoryStreaming   Category = "Streaming"
	CategoryGames       Category = "Games"
	CategoryBooks       Category = "Books"
	CategoryClothing    Category = "Clothing"
	CategoryFitness     Category = "Fitness"
	CategoryDecor       Category = "Decor"
	CategorySavings     Category = "Savings"
	CategoryInvestments Category = "Investments"
	CategoryExtraIncome Category = "Extra Income"
	CategoryOther       Category = "Other"
)

var vocabulary = []Category{
	CategorySalary,
	CategoryRent,
	CategoryUtilities,
	CategoryGroceries,
	CategoryTransport,
	CategoryHealth,
	CategoryBeauty,
	CategoryLaundry,
	CategoryWorkTools,
	CategoryRestaurants,
	CategoryDelivery,
	CategoryCinema,
	CategoryConcerts,
	CategoryStreaming,
	CategoryGames,
	CategoryBooks,
	CategoryClothing,
	CategoryFitness,
	CategoryDecor,
	CategorySavings,
	CategoryInvestments,
	CategoryExtraIncome,
	CategoryOther,
}

// byKey indexes the vocabulary by normalized name.
var byKey = func() map[string]Category {
	m := make(map[string]Category, len(vocabulary))
	for _, c := range vocabulary {
		m[normalizeCategory(string(c))] = c
	}
	return m
}()

// Categories returns the vocabulary in display order.
func Categories() []Category {
	out := make([]Category, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(name string) (Category, bool) {
	c, ok := byKey[normalizeCategory(name)]
	return c, ok
}

// Valid reports whether c belongs to the vocabulary.
func (c Category) Valid() bool {
	v, ok := byKey[normalizeCategory(string(c))]
	return ok && v == c
}

// IncomeOnly reports whether c may only be assigned to credits.
func (c Category) IncomeOnly() bool {
	return c == CategorySalary || c == CategoryExtraIncome
}

// AdmissibleFor reports whether c may be assigned to a transaction of type t.
// Credits accept income categories and Other; charges accept everything else.
func (c Category) AdmissibleFor(t TxType) bool {
	if !c.Valid() {
		return false
	}
	if t == TxCredit {
		return c.IncomeOnly() || c == CategoryOther
	}
	return !c.IncomeOnly()
}

// AdmissibleCategories lists the categories that may be assigned to type t.
func AdmissibleCategories(t TxType) []Category {
	var out []Category
	for _, c := range vocabulary {
		if c.AdmissibleFor(t) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
