package bot

import (
	"context"

	"orderdesk-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// notifyAdmin delivers the order summary to the configured admin chat.
// Failure here never affects the user-facing outcome.
func (b *Bot) notifyAdmin(ctx context.Context, order storage.Order) {
	if b.cfg.AdminID == 0 {
		b.logger.Warn("Admin notifications disabled - no admin ID configured")
		return
	}

	msg := tgbotapi.NewMessage(b.cfg.AdminID, FormatAdminNotification(order))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send admin notification",
			zap.Int64("order_id", order.ID),
			zap.Int64("admin_id", b.cfg.AdminID),
			zap.Error(err))
	}
}
