package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"cardmax/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKeywords(t *testing.T) {
	c := New(nil)

	tests := []struct {
		description string
		merchant    string
		want        domain.Category
	}{
		{"Dinner at restaurant", "", domain.CategoryDining},
		{"UBER EATS DELIVERY", "", domain.CategoryDining},
		{"COFFEE SHOP DOWNTOWN", "", domain.CategoryDining},
		{"Flight to Denver", "", domain.CategoryTravel},
		{"Two nights at the hotel", "", domain.CategoryTravel},
		{"WALMART GROCERY", "", domain.CategoryGroceries},
		{"Weekly supermarket run", "", domain.CategoryGroceries},
		{"SHELL GAS STATION", "", domain.CategoryGas},
		{"EXXON FUEL", "", domain.CategoryGas},
		{"Movie night", "", domain.CategoryEntertainment},
		{"Monthly subscription", "Netflix", domain.CategoryEntertainment},
		{"AMAZON.COM", "", domain.CategoryOnlineShopping},
		{"Online order", "", domain.CategoryOnlineShopping},
		{"random gibberish xyz", "", domain.CategoryOther},
		{"   ", "", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.description, tt.merchant))
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	c := New(nil)

	// Совпадают и dining ("dinner"), и travel ("airport", "hotel") —
	// выигрывает категория, объявленная раньше.
	got := c.Classify("Dinner at the airport hotel", "")
	assert.Equal(t, domain.CategoryDining, got)
}

func TestClassifyIdempotent(t *testing.T) {
	c := New(nil)

	first := c.Classify("Dinner at restaurant", "")
	second := c.Classify("Dinner at restaurant", "")
	assert.Equal(t, first, second)
}

func TestMatchReportsFallback(t *testing.T) {
	c := New(nil)

	category, matched := c.Match("random gibberish xyz", "")
	assert.Equal(t, domain.CategoryOther, category)
	assert.False(t, matched)

	category, matched = c.Match("lunch with the team", "")
	assert.Equal(t, domain.CategoryDining, category)
	assert.True(t, matched)
}

func TestLoadFileOverridesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - name: dining
    keywords:
      - tapas
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	vocab, err := LoadFile(path)
	require.NoError(t, err)

	c := New(vocab)
	// Новый набор для dining действует
	assert.Equal(t, domain.CategoryDining, c.Classify("tapas with friends", ""))
	// Старые ключевые слова dining заменены целиком
	assert.Equal(t, domain.CategoryOther, c.Classify("dinner with friends", ""))
	// Остальные категории остались дефолтными
	assert.Equal(t, domain.CategoryTravel, c.Classify("flight home", ""))
}

func TestLoadFileUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - name: crypto
    keywords: [bitcoin]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
