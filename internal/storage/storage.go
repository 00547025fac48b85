// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"cardmax/internal/domain"
)

// ErrDuplicateEmail — email уже зарегистрирован.
var ErrDuplicateEmail = errors.New("email already registered")

type UserStorage interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CardStorage interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	FindCardByID(ctx context.Context, cardID string) (*domain.Card, error)
}

// WalletStorage — карты пользователя. Порядок — порядок добавления.
type WalletStorage interface {
	ListWalletCards(ctx context.Context, userID string) ([]domain.Card, error)
	AddCardToWallet(ctx context.Context, userID, cardID string) error
	RemoveCardFromWallet(ctx context.Context, userID, cardID string) error
}

type TransactionStorage interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, tx domain.Transaction) (*domain.Transaction, error)
}
