// internal/handler/transactions.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"cardmax/internal/domain"
	"cardmax/internal/middleware"
	"cardmax/internal/rewards"
	"cardmax/internal/storage"

	"github.com/gin-gonic/gin"
)

type TransactionsStorage interface {
	storage.TransactionStorage
	storage.CardStorage
}

type TransactionsHandler struct {
	store  TransactionsStorage
	engine *rewards.Engine
}

func NewTransactionsHandler(store TransactionsStorage, engine *rewards.Engine) *TransactionsHandler {
	return &TransactionsHandler{store: store, engine: engine}
}

// List godoc
// @Summary List the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Success 200 {array} domain.Transaction
// @Router /transactions [get]
func (h *TransactionsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	txs, err := h.store.ListTransactions(context.Background(), userID)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

type createTransactionRequest struct {
	Description string  `json:"description" validate:"required,notblank"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"category"`
	CardID      *string `json:"cardId"`
	IsForeign   bool    `json:"isForeign"`
	Merchant    *string `json:"merchant"`
	Location    *string `json:"location"`
}

// Create godoc
// @Summary Record a purchase
// @Description Category is classified from the description when omitted;
// @Description rewardValue is computed when a card reference is supplied.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body createTransactionRequest true "Purchase"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionsHandler) Create(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	merchant := ""
	if req.Merchant != nil {
		merchant = *req.Merchant
	}

	// Категория фиксируется при создании и больше не меняется.
	category := domain.Category(req.Category)
	if category == "" {
		category = h.engine.Classify(req.Description, merchant)
	}

	tx := domain.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    category,
		IsForeign:   req.IsForeign,
		Merchant:    req.Merchant,
		Location:    req.Location,
	}

	if req.CardID != nil && *req.CardID != "" {
		card, err := h.store.FindCardByID(context.Background(), *req.CardID)
		if err != nil {
			slog.Error("FindCardByID failed", "error", err, "card_id", *req.CardID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if card == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}

		value, err := rewards.Score(req.Amount, category, *card)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
			return
		}
		tx.CardID = &card.ID
		tx.RewardValue = &value
	}

	created, err := h.store.CreateTransaction(context.Background(), userID, tx)
	if err != nil {
		slog.Error("CreateTransaction failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transaction"})
		return
	}

	slog.Info("Transaction recorded", "user_id", userID, "transaction_id", created.ID, "category", created.Category)
	c.JSON(http.StatusOK, created)
}
