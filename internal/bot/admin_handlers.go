package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Admin-only commands. Non-admin chats are ignored silently so the
// commands stay undiscoverable.

func (b *Bot) isAdmin(chatID int64) bool {
	return chatID == b.cfg.AdminID
}

func (b *Bot) handleAdminStats(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		b.logger.Debug("Ignoring /stats from non-admin",
			zap.Int64("chat_id", chatID))
		return
	}

	stats, err := b.store.OrderStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get order statistics", zap.Error(err))
		b.sendError(chatID, "Could not load statistics.")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, FormatOrderStatistics(stats)))
}

func (b *Bot) handleAdminExport(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		b.logger.Debug("Ignoring /export from non-admin",
			zap.Int64("chat_id", chatID))
		return
	}

	filepath, err := b.store.ExportOrdersToExcel(ctx)
	if err != nil {
		b.logger.Error("Failed to export orders to Excel", zap.Error(err))
		b.sendError(chatID, "Could not export orders.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	doc.Caption = "📊 Order book export"
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("Failed to send export document",
			zap.String("filepath", filepath),
			zap.Error(err))
	}
}
