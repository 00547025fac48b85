// internal/rewards/scorer.go
package rewards

import (
	"errors"

	"cardmax/internal/domain"
)

var (
	// ErrInvalidAmount — сумма покупки должна быть положительной.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrEmptyWallet — в кошельке нет ни одной карты.
	ErrEmptyWallet = errors.New("wallet has no cards")
	// ErrUnknownCard — ссылка на карту, которой нет в каталоге.
	ErrUnknownCard = errors.New("unknown card")
)

// Score — ожидаемая выгода: amount × rate / 100. Ставка берётся из
// таблицы карты по категории, с фолбэком на "other". Чистая функция.
func Score(amount float64, category domain.Category, card domain.Card) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount * card.Rate(category) / 100, nil
}
