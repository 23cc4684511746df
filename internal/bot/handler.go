package bot

import (
	"context"
	"fmt"
	"strings"

	"orderdesk-bot/internal/catalog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	OrderTypeApp       = "App Order"
	OrderTypeWebsite   = "Website Order"
	OrderTypePromotion = "Promotion Order"
)

// categoryKeys maps an order type to its catalog category.
var categoryKeys = map[string]string{
	OrderTypeApp:       catalog.KeyApp,
	OrderTypeWebsite:   catalog.KeyWebsite,
	OrderTypePromotion: catalog.KeyPromote,
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		b.sendMainMenu(ctx, chatID)
	case "help":
		b.handleHelp(ctx, chatID)
	case "stats":
		b.handleAdminStats(ctx, chatID)
	case "export":
		b.handleAdminExport(ctx, chatID)
	default:
		b.handleUnknownCommand(ctx, chatID)
	}
}

func (b *Bot) sendMainMenu(ctx context.Context, chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID,
		"✨ Welcome to Premium Tournament Service Bot! ✨\n\nPlease select an option:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateMainMenuKeyboard()
	b.sendMessage(msg)
}

// handleCategorySelection starts a fresh session for the chosen order
// type. Any in-flight session is silently replaced.
func (b *Bot) handleCategorySelection(ctx context.Context, chatID int64, orderType string) {
	session := Session{OrderType: orderType}

	if !b.flow.CatalogEnabled {
		session.Step = StepName
		if err := b.sessions.Set(ctx, chatID, session); err != nil {
			b.logger.Error("Failed to set session",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.sendError(chatID, "Something went wrong. Please try again.")
			return
		}
		b.promptName(chatID)
		return
	}

	category, ok := catalog.Get(categoryKeys[orderType])
	if !ok {
		b.logger.Error("No catalog category for order type",
			zap.String("order_type", orderType))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.Step = StepItemSelection
	if err := b.sessions.Set(ctx, chatID, session); err != nil {
		b.logger.Error("Failed to set session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatCatalog(category))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateItemSelectionKeyboard(category)
	b.sendMessage(msg)
}

func formatCatalog(category catalog.Category) string {
	var sb strings.Builder
	sb.WriteString(category.Title)
	sb.WriteString("\n")
	for _, item := range category.Items {
		sb.WriteString(fmt.Sprintf("\n- %s: %s - %d৳", item.Name, item.Detail(), item.Price))
	}
	return sb.String()
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.logger.Error("Failed to delete session on cancel",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID, "❌ Your order has been cancelled.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.sendMessage(msg)

	b.sendMainMenu(ctx, chatID)
}

// handleBack clears the whole session and returns to the top menu. It
// does not step back one prompt.
func (b *Bot) handleBack(ctx context.Context, chatID int64) {
	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.logger.Error("Failed to delete session on back",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	b.sendMainMenu(ctx, chatID)
}

func (b *Bot) handleOrderHistory(ctx context.Context, chatID int64) {
	orders, err := b.store.OrdersByUser(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to load order history",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Could not load your orders right now. Please try again later.")
		return
	}

	if len(orders) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "❌ You have no previous orders."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, FormatOrderHistory(orders))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(msg)
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64) {
	b.sendError(chatID, "I don't understand that. Please use the menu.")
}

func (b *Bot) handleUnknownCommand(ctx context.Context, chatID int64) {
	b.sendError(chatID, "Unknown command. Please use /start to begin.")
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	helpText := `Available commands:
	/start - Show the main menu
	/help - Show this help

	Pick an order type from the menu and answer the prompts. Use Cancel at any point to abort.`

	b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
}
