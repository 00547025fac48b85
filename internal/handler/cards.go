// internal/handler/cards.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"cardmax/internal/domain"
	"cardmax/internal/middleware"
	"cardmax/internal/rewards"
	"cardmax/internal/storage"

	"github.com/gin-gonic/gin"
)

type CardsStorage interface {
	storage.CardStorage
	storage.WalletStorage
}

type CardsHandler struct {
	store  CardsStorage
	engine *rewards.Engine
}

func NewCardsHandler(store CardsStorage, engine *rewards.Engine) *CardsHandler {
	return &CardsHandler{store: store, engine: engine}
}

// ListCards godoc
// @Summary List the card catalog
// @Tags cards
// @Produce json
// @Success 200 {array} domain.Card
// @Router /cards [get]
func (h *CardsHandler) ListCards(c *gin.Context) {
	cards, err := h.store.ListCards(context.Background())
	if err != nil {
		slog.Error("ListCards failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	c.JSON(http.StatusOK, cards)
}

// GetWallet godoc
// @Summary List the caller's wallet in insertion order
// @Tags wallet
// @Produce json
// @Success 200 {array} domain.Card
// @Router /wallet/cards [get]
func (h *CardsHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	cards, err := h.store.ListWalletCards(context.Background(), userID)
	if err != nil {
		slog.Error("GetWallet failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	c.JSON(http.StatusOK, cards)
}

type addCardRequest struct {
	CardID string `json:"cardId" validate:"required,notblank"`
}

// AddToWallet godoc
// @Summary Add a catalog card to the caller's wallet (idempotent)
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body addCardRequest true "Card reference"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /wallet/cards [post]
func (h *CardsHandler) AddToWallet(c *gin.Context) {
	var req addCardRequest
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

	card, err := h.store.FindCardByID(context.Background(), req.CardID)
	if err != nil {
		slog.Error("FindCardByID failed", "error", err, "card_id", req.CardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		return
	}

	if err := h.store.AddCardToWallet(context.Background(), userID, card.ID); err != nil {
		slog.Error("AddCardToWallet failed", "error", err, "user_id", userID, "card_id", card.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RemoveFromWallet godoc
// @Summary Remove a card from the caller's wallet (no-op when absent)
// @Tags wallet
// @Produce json
// @Param cardId path string true "Card id"
// @Success 200 {object} map[string]string
// @Router /wallet/cards/{cardId} [delete]
func (h *CardsHandler) RemoveFromWallet(c *gin.Context) {
	cardID := c.Param("cardId")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardId path param required"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	if err := h.store.RemoveCardFromWallet(context.Background(), userID, cardID); err != nil {
		slog.Error("RemoveCardFromWallet failed", "error", err, "user_id", userID, "card_id", cardID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type recommendRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,notblank"`
	IsForeign   bool    `json:"is_foreign"`
	Merchant    string  `json:"merchant"`
}

// Recommend godoc
// @Summary Recommend the best wallet card for a prospective purchase
// @Tags cards
// @Accept json
// @Produce json
// @Param request body recommendRequest true "Purchase intent"
// @Success 200 {object} domain.CardRecommendation
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cards/recommend [post]
func (h *CardsHandler) Recommend(c *gin.Context) {
	slog.Info("Recommend request received")
	var req recommendRequest
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

	wallet, err := h.store.ListWalletCards(context.Background(), userID)
	if err != nil {
		slog.Error("ListWalletCards failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	recommendation, err := h.engine.Recommend(wallet, rewards.Request{
		Amount:      req.Amount,
		Description: req.Description,
		Merchant:    req.Merchant,
		IsForeign:   req.IsForeign,
	})
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrEmptyWallet):
			c.JSON(http.StatusNotFound, gin.H{"error": "No cards in wallet"})
		case errors.Is(err, rewards.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		default:
			slog.Error("Recommend failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		}
		return
	}

	slog.Info("Recommendation served", "user_id", userID, "card_id", recommendation.Card.ID)
	c.JSON(http.StatusOK, recommendation)
}
