package bot

import (
	"context"
	"time"

	"orderdesk-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// completeOrder runs the terminal transaction: persist the record, confirm
// to the user, notify the admin, drop the session, re-show the menu. The
// steps are sequential and best-effort. A failed save aborts everything
// after it and keeps the session so the user can retry; a failed admin
// notification is logged only, since the order is already durable.
func (b *Bot) completeOrder(ctx context.Context, chatID int64, session Session) {
	order := storage.Order{
		UserID:        chatID,
		Name:          session.Name,
		Email:         session.Email,
		Telegram:      session.TelegramNumber,
		Whatsapp:      session.WhatsappNumber,
		OrderType:     session.OrderType,
		ItemName:      session.ItemName,
		ItemPrice:     session.ItemPrice,
		PaymentMethod: session.PaymentMethod,
		PaymentStatus: session.PaymentStatus,
		TransactionID: session.TransactionID,
		CreatedAt:     time.Now(),
	}

	orderID, err := b.store.SaveOrder(ctx, order)
	if err != nil {
		b.logger.Error("Failed to save order",
			zap.Int64("chat_id", chatID),
			zap.String("order_type", order.OrderType),
			zap.Error(err))
		b.sendError(chatID, "Could not save your order right now. Please try again.")
		return
	}
	order.ID = orderID

	msg := tgbotapi.NewMessage(chatID,
		"✅ Order Confirmed!\n\nWe have received your order. Please wait for admin confirmation.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.sendMessage(msg)

	b.notifyAdmin(ctx, order)

	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.logger.Error("Failed to delete session after order",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	b.sendMainMenu(ctx, chatID)
}
