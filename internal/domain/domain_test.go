package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"Groceries", CategoryGroceries, true},
		{"  work tools ", CategoryWorkTools, true},
		{"EXTRA INCOME", CategoryExtraIncome, true},
		{"Supermercado", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryOther.Valid())
	assert.False(t, Category("").Valid())
	assert.False(t, Category("groceries").Valid(), "only the canonical spelling is a vocabulary member")
}

func TestAdmissibleFor(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		txType   TxType
		want     bool
	}{
		{"salary on credit", CategorySalary, TxCredit, true},
		{"extra income on credit", CategoryExtraIncome, TxCredit, true},
		{"other on credit", CategoryOther, TxCredit, true},
		{"groceries on credit", CategoryGroceries, TxCredit, false},
		{"salary on charge", CategorySalary, TxCharge, false},
		{"extra income on charge", CategoryExtraIncome, TxCharge, false},
		{"games on charge", CategoryGames, TxCharge, true},
		{"other on charge", CategoryOther, TxCharge, true},
		{"unknown", Category("Pets"), TxCharge, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.AdmissibleFor(tt.txType))
		})
	}
}

func TestAdmissibleCategories(t *testing.T) {
	credit := AdmissibleCategories(TxCredit)
	assert.ElementsMatch(t, []Category{CategorySalary, CategoryExtraIncome, CategoryOther}, credit)

	charge := AdmissibleCategories(TxCharge)
	assert.Len(t, charge, len(Categories())-2)
	assert.NotContains(t, charge, CategorySalary)
}

func TestParseTxType(t *testing.T) {
	for in, want := range map[string]TxType{"cargo": TxCharge, "charge": TxCharge, "abono": TxCredit, "credit": TxCredit} {
		got, ok := ParseTxType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseTxType("debit")
	assert.False(t, ok)
	assert.Equal(t, "abono", TxCredit.Wire())
	assert.Equal(t, "cargo", TxCharge.Wire())
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("15/03/2024")
	assert.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 15, d.Day())

	_, ok = ParseDate("2024-03-15")
	assert.False(t, ok)
}

func TestCategoryTemplateValidate(t *testing.T) {
	valid := TemplateRule{Keywords: []string{"XYZ"}, Category: CategoryGames, Confidence: ConfidenceHigh}

	tests := []struct {
		name    string
		tpl     CategoryTemplate
		wantErr bool
	}{
		{"valid", CategoryTemplate{Rules: []TemplateRule{valid}}, false},
		{"no rules", CategoryTemplate{}, true},
		{"blank keywords", CategoryTemplate{Rules: []TemplateRule{{Keywords: []string{" "}, Category: CategoryGames, Confidence: ConfidenceHigh}}}, true},
		{"unknown category", CategoryTemplate{Rules: []TemplateRule{{Keywords: []string{"A"}, Category: "Pets", Confidence: ConfidenceHigh}}}, true},
		{"low confidence", CategoryTemplate{Rules: []TemplateRule{{Keywords: []string{"A"}, Category: CategoryGames, Confidence: ConfidenceLow}}}, true},
		{"ai confidence", CategoryTemplate{Rules: []TemplateRule{{Keywords: []string{"A"}, Category: CategoryGames, Confidence: ConfidenceAI}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tpl.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTemplate), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCategoryTemplateNormalize(t *testing.T) {
	tpl := CategoryTemplate{
		Name: "  mine ",
		Rules: []TemplateRule{
			{Keywords: []string{" xyz ", ""}, Category: "games", Confidence: " HIGH"},
		},
	}

	got := tpl.Normalize()
	assert.Equal(t, "mine", got.Name)
	assert.Equal(t, []string{"xyz"}, got.Rules[0].Keywords)
	assert.Equal(t, CategoryGames, got.Rules[0].Category)
	assert.Equal(t, ConfidenceHigh, got.Rules[0].Confidence)
	assert.NoError(t, got.Validate())
	assert.Equal(t, Category("games"), tpl.Rules[0].Category, "input must not be mutated")
}
