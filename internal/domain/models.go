// internal/domain/models.go
package domain

import "time"

// Category — закрытый набор категорий трат.
type Category string

const (
	CategoryDining         Category = "dining"
	CategoryTravel         Category = "travel"
	CategoryGroceries      Category = "groceries"
	CategoryGas            Category = "gas"
	CategoryEntertainment  Category = "entertainment"
	CategoryOnlineShopping Category = "online_shopping"
	CategoryOther          Category = "other"
)

// Categories — порядок объявления задаёт приоритет классификатора.
var Categories = []Category{
	CategoryDining,
	CategoryTravel,
	CategoryGroceries,
	CategoryGas,
	CategoryEntertainment,
	CategoryOnlineShopping,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RewardType — единица вознаграждения карты.
type RewardType string

const (
	RewardPoints   RewardType = "points"
	RewardCashback RewardType = "cashback"
	RewardMiles    RewardType = "miles"
)

func (t RewardType) Valid() bool {
	return t == RewardPoints || t == RewardCashback || t == RewardMiles
}

type Card struct {
	ID                    string               `json:"id"`
	Name                  string               `json:"name"`
	Issuer                string               `json:"issuer"`
	Rewards               map[Category]float64 `json:"rewards"`
	RewardType            RewardType           `json:"rewardType"`
	AnnualFee             float64              `json:"annualFee"`
	ForeignTransactionFee float64              `json:"foreignTransactionFee"`
	SignUpBonus           *string              `json:"signUpBonus,omitempty"`
}

// Rate возвращает ставку по категории, с фолбэком на "other".
// Если в таблице нет и "other" — карта по этой категории ничего не даёт.
func (c Card) Rate(category Category) float64 {
	if rate, ok := c.Rewards[category]; ok {
		return rate
	}
	return c.Rewards[CategoryOther]
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"-"`
}

// Transaction — запись о покупке. После создания не меняется.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	CardID      *string   `json:"cardId,omitempty"`
	RewardValue *float64  `json:"rewardValue,omitempty"`
	IsForeign   bool      `json:"isForeign"`
	Merchant    *string   `json:"merchant,omitempty"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CardRecommendation — результат подбора карты, никуда не сохраняется.
type CardRecommendation struct {
	Card        Card    `json:"card"`
	RewardValue float64 `json:"rewardValue"`
	Explanation string  `json:"explanation"`
}
