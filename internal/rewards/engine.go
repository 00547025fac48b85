// internal/rewards/engine.go
package rewards

import (
	"fmt"
	"strconv"

	"cardmax/internal/classifier"
	"cardmax/internal/domain"
)

// Request — намерение покупки, для которой подбирается карта.
type Request struct {
	Amount      float64
	Description string
	Merchant    string
	IsForeign   bool
}

// Engine подбирает лучшую карту из кошелька. Кошелёк — снапшот,
// предоставленный вызывающим; движок его не меняет, состояния не держит
// и безопасен для конкурентных вызовов.
type Engine struct {
	classifier *classifier.Classifier
}

func NewEngine(c *classifier.Classifier) *Engine {
	return &Engine{classifier: c}
}

// Classify — категория для описания покупки (без подбора карты).
func (e *Engine) Classify(description, merchant string) domain.Category {
	return e.classifier.Classify(description, merchant)
}

// Recommend классифицирует покупку и выбирает карту с максимальной
// выгодой. При равенстве: меньший годовой сбор, затем меньшая комиссия
// за зарубежные операции (если покупка зарубежная), затем порядок
// добавления в кошелёк.
func (e *Engine) Recommend(wallet []domain.Card, req Request) (*domain.CardRecommendation, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(wallet) == 0 {
		return nil, ErrEmptyWallet
	}

	category := e.classifier.Classify(req.Description, req.Merchant)

	best := wallet[0]
	bestValue, err := Score(req.Amount, category, best)
	if err != nil {
		return nil, err
	}

	for _, card := range wallet[1:] {
		value, err := Score(req.Amount, category, card)
		if err != nil {
			return nil, err
		}
		switch {
		case value > bestValue:
			best, bestValue = card, value
		case value == bestValue && beatsOnFees(card, best, req.IsForeign):
			best, bestValue = card, value
		}
	}

	return &domain.CardRecommendation{
		Card:        best,
		RewardValue: bestValue,
		Explanation: explain(best, category, bestValue, req),
	}, nil
}

// beatsOnFees решает ничью между картами с одинаковой выгодой.
func beatsOnFees(candidate, current domain.Card, isForeign bool) bool {
	if candidate.AnnualFee != current.AnnualFee {
		return candidate.AnnualFee < current.AnnualFee
	}
	if isForeign && candidate.ForeignTransactionFee != current.ForeignTransactionFee {
		return candidate.ForeignTransactionFee < current.ForeignTransactionFee
	}
	return false
}

func explain(card domain.Card, category domain.Category, value float64, req Request) string {
	rate := formatRate(card.Rate(category))
	explanation := fmt.Sprintf(
		"Classified as %s; %s returns %s%% back on %s purchases and will earn you %.2f %s on your %.2f purchase.",
		category, card.Name, rate, category, value, card.RewardType, req.Amount,
	)
	if req.IsForeign && card.ForeignTransactionFee > 0 {
		explanation += fmt.Sprintf(
			" Note: this card charges a %s%% foreign transaction fee.",
			formatRate(card.ForeignTransactionFee),
		)
	}
	return explanation
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
