// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cardmax/internal/domain"
	"cardmax/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, is_active, created_at
	`, email, passwordHash).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, storage.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Debug("user created", "user_id", user.ID, "email", user.Email)
	return &user, nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, is_active, created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// === CardStorage ===

const cardColumns = `
	c.id, c.name, c.issuer, c.reward_type,
	c.annual_fee, c.foreign_transaction_fee, c.sign_up_bonus,
	r.category, r.rate`

func (s *Storage) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN card_rewards r ON r.card_id = c.id
		WHERE c.is_active
		ORDER BY c.name, r.category
	`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

func (s *Storage) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN card_rewards r ON r.card_id = c.id
		WHERE c.id = $1 AND c.is_active
		ORDER BY r.category
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("query card: %w", err)
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return &cards[0], nil
}

// === WalletStorage ===

func (s *Storage) ListWalletCards(ctx context.Context, userID string) ([]domain.Card, error) {
	// Порядок добавления важен: он финальный тай-брейк рекомендации.
	rows, err := s.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM wallet_cards w
		JOIN cards c ON c.id = w.card_id
		JOIN card_rewards r ON r.card_id = c.id
		WHERE w.user_id = $1
		ORDER BY w.added_at, c.id, r.category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wallet: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

func (s *Storage) AddCardToWallet(ctx context.Context, userID, cardID string) error {
	// Повторное добавление — no-op.
	_, err := s.db.Exec(ctx, `
		INSERT INTO wallet_cards (user_id, card_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, card_id) DO NOTHING
	`, userID, cardID)
	if err != nil {
		return fmt.Errorf("add card to wallet: %w", err)
	}
	return nil
}

func (s *Storage) RemoveCardFromWallet(ctx context.Context, userID, cardID string) error {
	// Удаление отсутствующей карты — no-op.
	_, err := s.db.Exec(ctx, `
		DELETE FROM wallet_cards WHERE user_id = $1 AND card_id = $2
	`, userID, cardID)
	if err != nil {
		return fmt.Errorf("remove card from wallet: %w", err)
	}
	return nil
}

// collectCards собирает строки join-а карта×ставка в карты с таблицей
// ставок, сохраняя порядок первого появления карты.
func collectCards(rows pgx.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	index := make(map[string]int)

	for rows.Next() {
		var (
			card     domain.Card
			category string
			rate     float64
		)
		if err := rows.Scan(
			&card.ID, &card.Name, &card.Issuer, &card.RewardType,
			&card.AnnualFee, &card.ForeignTransactionFee, &card.SignUpBonus,
			&category, &rate,
		); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}

		i, seen := index[card.ID]
		if !seen {
			card.Rewards = make(map[domain.Category]float64)
			cards = append(cards, card)
			i = len(cards) - 1
			index[card.ID] = i
		}
		cards[i].Rewards[domain.Category(category)] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return cards, nil
}

// === TransactionStorage ===

func (s *Storage) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, description, amount, category, card_id, reward_value,
		       is_foreign, merchant, location, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Description, &tx.Amount, &tx.Category, &tx.CardID,
			&tx.RewardValue, &tx.IsForeign, &tx.Merchant, &tx.Location, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *Storage) CreateTransaction(ctx context.Context, userID string, tx domain.Transaction) (*domain.Transaction, error) {
	// id и created_at назначает БД.
	err := s.db.QueryRow(ctx, `
		INSERT INTO transactions
			(user_id, description, amount, category, card_id, reward_value,
			 is_foreign, merchant, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, userID, tx.Description, tx.Amount, tx.Category, tx.CardID,
		tx.RewardValue, tx.IsForeign, tx.Merchant, tx.Location,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	slog.Debug("transaction created", "user_id", userID, "transaction_id", tx.ID, "category", tx.Category)
	return &tx, nil
}
