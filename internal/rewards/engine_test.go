package rewards

import (
	"testing"

	"cardmax/internal/classifier"
	"cardmax/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(classifier.New(nil))
}

func card(id string, annualFee, foreignFee float64, rewards map[domain.Category]float64) domain.Card {
	return domain.Card{
		ID:                    id,
		Name:                  id,
		Issuer:                "Test Bank",
		Rewards:               rewards,
		RewardType:            domain.RewardCashback,
		AnnualFee:             annualFee,
		ForeignTransactionFee: foreignFee,
	}
}

func TestRecommendDiningScenario(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("card-a", 95, 0, map[domain.Category]float64{domain.CategoryDining: 3, domain.CategoryOther: 1}),
		card("card-b", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2, domain.CategoryOther: 1.5}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "Dinner at restaurant"})
	require.NoError(t, err)

	assert.Equal(t, "card-a", rec.Card.ID)
	assert.Equal(t, 3.0, rec.RewardValue)
	assert.Contains(t, rec.Explanation, "dining")
	assert.Contains(t, rec.Explanation, "3%")
}

func TestRecommendFallbackScenario(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("card-a", 95, 0, map[domain.Category]float64{domain.CategoryDining: 3, domain.CategoryOther: 1}),
		card("card-b", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2, domain.CategoryOther: 1.5}),
	}

	// Описание без ключевых слов → "other"; выигрывает более высокая
	// ставка other, а не dining
	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "random gibberish xyz"})
	require.NoError(t, err)

	assert.Equal(t, "card-b", rec.Card.ID)
	assert.Equal(t, 1.5, rec.RewardValue)
	assert.Contains(t, rec.Explanation, "other")
}

func TestRecommendWinnerIsMaximal(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("a", 0, 0, map[domain.Category]float64{domain.CategoryDining: 1, domain.CategoryOther: 1}),
		card("b", 0, 0, map[domain.Category]float64{domain.CategoryDining: 4, domain.CategoryOther: 0.5}),
		card("c", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2, domain.CategoryOther: 2}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 250, Description: "sushi lunch"})
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, c := range wallet {
		ids[c.ID] = true
		score, err := Score(250, domain.CategoryDining, c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.RewardValue, score)
	}
	assert.True(t, ids[rec.Card.ID], "winner must come from the wallet")
	assert.Equal(t, "b", rec.Card.ID)
}

func TestRecommendTieBrokenByAnnualFee(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("pricey", 95, 0, map[domain.Category]float64{domain.CategoryDining: 2}),
		card("free", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "pizza dinner"})
	require.NoError(t, err)
	assert.Equal(t, "free", rec.Card.ID)
}

func TestRecommendTieBrokenByForeignFee(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("with-fee", 0, 3, map[domain.Category]float64{domain.CategoryDining: 2}),
		card("no-fee", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2}),
	}

	// За рубежом при равных ставках и сборах выигрывает меньшая комиссия
	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "cafe in Paris", IsForeign: true})
	require.NoError(t, err)
	assert.Equal(t, "no-fee", rec.Card.ID)

	// Дома комиссия не учитывается — остаётся порядок добавления
	rec, err = engine.Recommend(wallet, Request{Amount: 100, Description: "cafe around the corner"})
	require.NoError(t, err)
	assert.Equal(t, "with-fee", rec.Card.ID)
}

func TestRecommendTieBrokenByInsertionOrder(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("first", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2}),
		card("second", 0, 0, map[domain.Category]float64{domain.CategoryDining: 2}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "burger lunch"})
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Card.ID)
}

func TestRecommendEmptyWallet(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Recommend(nil, Request{Amount: 100, Description: "dinner"})
	assert.ErrorIs(t, err, ErrEmptyWallet)
}

func TestRecommendInvalidAmount(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{card("a", 0, 0, map[domain.Category]float64{domain.CategoryOther: 1})}

	_, err := engine.Recommend(wallet, Request{Amount: 0, Description: "dinner"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = engine.Recommend(wallet, Request{Amount: -20, Description: "dinner"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecommendForeignFeeCaveat(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("fee-card", 0, 2.7, map[domain.Category]float64{domain.CategoryDining: 3}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 100, Description: "dinner abroad", IsForeign: true})
	require.NoError(t, err)

	// Комиссия упоминается в пояснении, но из суммы не вычитается
	assert.Equal(t, 3.0, rec.RewardValue)
	assert.Contains(t, rec.Explanation, "foreign transaction fee")
	assert.Contains(t, rec.Explanation, "2.7%")

	rec, err = engine.Recommend(wallet, Request{Amount: 100, Description: "dinner at home"})
	require.NoError(t, err)
	assert.NotContains(t, rec.Explanation, "foreign transaction fee")
}

func TestRecommendUsesMerchant(t *testing.T) {
	engine := newTestEngine()
	wallet := []domain.Card{
		card("grocer", 0, 0, map[domain.Category]float64{domain.CategoryGroceries: 6, domain.CategoryOther: 1}),
		card("flat", 0, 0, map[domain.Category]float64{domain.CategoryOther: 2}),
	}

	rec, err := engine.Recommend(wallet, Request{Amount: 50, Description: "weekly run", Merchant: "Safeway"})
	require.NoError(t, err)
	assert.Equal(t, "grocer", rec.Card.ID)
	assert.Equal(t, 3.0, rec.RewardValue)
}
