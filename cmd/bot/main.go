// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"cardmax/internal/classifier"
	"cardmax/internal/config"
	"cardmax/internal/rewards"
	"cardmax/internal/storage/postgres"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	cfg := config.MustLoad()
	db, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	defer db.Close()

	store := postgres.NewStorage(db)

	vocab := classifier.Default()
	if cfg.CategoriesFile != "" {
		vocab, err = classifier.LoadFile(cfg.CategoriesFile)
		if err != nil {
			log.Fatal("Failed to load categories file:", err)
		}
	}
	engine := rewards.NewEngine(classifier.New(vocab))

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Panic(err)
	}

	log.Printf("Bot started: @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(update.Message.Text)

		var msgText string
		var err error

		switch {
		case text == "/start" || text == "/help":
			msgText = "💳 *Card optimizer*\n\n" +
				"Commands:\n" +
				"`/cards` — list known cards\n" +
				"`/recommend 120 dinner at a restaurant` — best card for a purchase"

		case text == "/cards":
			msgText, err = handleCards(store)

		case strings.HasPrefix(text, "/recommend"):
			args := strings.TrimSpace(strings.TrimPrefix(text, "/recommend"))
			msgText, err = handleRecommend(store, engine, args)

		default:
			msgText = "Unknown command. Try /help"
		}

		if err != nil {
			msgText = "❌ Error: " + err.Error()
		}

		msg := tgbotapi.NewMessage(chatID, msgText)
		msg.ParseMode = "Markdown"
		bot.Send(msg)
	}
}

func handleCards(store *postgres.Storage) (string, error) {
	cards, err := store.ListCards(context.Background())
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "📭 The card catalog is empty", nil
	}

	var lines []string
	lines = append(lines, "💳 *Known cards*")
	for _, card := range cards {
		lines = append(lines, fmt.Sprintf("- *%s* (%s), $%.0f/yr", card.Name, card.Issuer, card.AnnualFee))
	}
	return strings.Join(lines, "\n"), nil
}

// handleRecommend подбирает карту по всему каталогу: у бота нет привязки
// к кошельку пользователя, в отличие от API.
func handleRecommend(store *postgres.Storage, engine *rewards.Engine, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "❌ Use: /recommend <amount> <description>", nil
	}

	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || amount <= 0 {
		return "❌ Amount must be a positive number", nil
	}
	description := strings.Join(fields[1:], " ")

	cards, err := store.ListCards(context.Background())
	if err != nil {
		return "", err
	}

	rec, err := engine.Recommend(cards, rewards.Request{
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		if err == rewards.ErrEmptyWallet {
			return "📭 The card catalog is empty", nil
		}
		return "", err
	}

	return fmt.Sprintf("✅ *%s*\n%s", rec.Card.Name, rec.Explanation), nil
}
