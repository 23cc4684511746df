package bot

import (
	"context"

	"orderdesk-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the slice of the Telegram client the handlers need.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// OrderStore persists completed orders and answers the history and admin
// queries. Writes are append-only.
type OrderStore interface {
	SaveOrder(ctx context.Context, order storage.Order) (int64, error)
	OrdersByUser(ctx context.Context, userID int64) ([]storage.Order, error)
	OrderStatistics(ctx context.Context) (*storage.OrderStatistics, error)
	ExportOrdersToExcel(ctx context.Context) (string, error)
}

var _ OrderStore = (*storage.PostgresStorage)(nil)
