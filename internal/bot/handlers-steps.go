package bot

import (
	"context"
	"fmt"

	"orderdesk-bot/internal/catalog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Step handlers. Each accepts one raw text input; invalid input re-prompts
// without advancing the step. Back and Cancel never reach these handlers,
// they are matched in processMessage.

func (b *Bot) handleItemSelection(ctx context.Context, chatID int64, text string) {
	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	category, ok := catalog.Get(categoryKeys[session.OrderType])
	if !ok {
		b.logger.Error("No catalog category for order type",
			zap.String("order_type", session.OrderType))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	item, found := category.Find(text)
	if !found {
		b.sendError(chatID, "Invalid selection! Please choose an item from the keyboard.")
		return
	}

	session.ItemName = item.Name
	session.ItemPrice = item.Price
	session.Step = StepName
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	b.promptName(chatID)
}

func (b *Bot) promptName(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "👤 Please enter your Name:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateBackCancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleName(ctx context.Context, chatID int64, text string) {
	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.Name = text
	session.Step = StepEmail
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, "📧 Please enter your Email (@gmail.com only):")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateBackCancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleEmail(ctx context.Context, chatID int64, text string) {
	if !IsValidEmail(text, b.flow.EmailDomain) {
		msg := tgbotapi.NewMessage(chatID,
			fmt.Sprintf("❌ Invalid Email! Please provide a valid *%s* email address.", b.flow.EmailDomain))
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.sendMessage(msg)
		return
	}

	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.Email = text
	session.Step = StepTelegramNumber
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, "💬 Please enter your Telegram Number:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateBackCancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleTelegramNumber(ctx context.Context, chatID int64, text string) {
	if !IsValidPhoneNumber(text, b.flow.PhoneDigits) {
		b.sendInvalidNumber(chatID, "Telegram")
		return
	}

	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.TelegramNumber = text
	session.Step = StepWhatsappNumber
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, "📱 Please enter your WhatsApp Number:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateBackCancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleWhatsappNumber(ctx context.Context, chatID int64, text string) {
	if !IsValidPhoneNumber(text, b.flow.PhoneDigits) {
		b.sendInvalidNumber(chatID, "WhatsApp")
		return
	}

	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.WhatsappNumber = text
	session.Step = StepPaymentMethod
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, "💵 Choose Payment Method:\n\n➡️ Click below to copy numbers:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreatePaymentMethodKeyboard(b.flow)
	b.sendMessage(msg)

	// The backticks are literal Markdown so the numbers are tap-to-copy.
	numbers := tgbotapi.NewMessage(chatID,
		"📱 Payment Numbers:\n\nBkash: `01318645435`\nNagad: `01855966005`\nRocket: `01829261192`\n\n(Click and copy the number)")
	numbers.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(numbers)
}

func (b *Bot) handlePaymentMethod(ctx context.Context, chatID int64, text string) {
	if !IsValidPaymentMethod(text, b.flow.PaymentMethods) {
		b.sendError(chatID, "Invalid Payment Method. Please select from the keyboard.")
		return
	}

	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.PaymentMethod = text

	if text == b.flow.CashOnDelivery {
		session.PaymentStatus = PaymentStatusCashOnDelivery
		session.TransactionID = "N/A"
		b.completeOrder(ctx, chatID, session)
		return
	}

	session.PaymentStatus = PaymentStatusPending
	session.Step = StepTransactionID
	if err := b.saveSession(ctx, chatID, session); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, "🧾 Please enter your Transaction ID after sending payment:")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = CreateBackCancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleTransactionID(ctx context.Context, chatID int64, text string) {
	session, _, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}

	session.TransactionID = text
	session.PaymentStatus = PaymentStatusPaid
	b.completeOrder(ctx, chatID, session)
}

func (b *Bot) saveSession(ctx context.Context, chatID int64, session Session) error {
	if err := b.sessions.Set(ctx, chatID, session); err != nil {
		b.logger.Error("Failed to save session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return err
	}
	return nil
}

func (b *Bot) sendInvalidNumber(chatID int64, kind string) {
	msg := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("❌ Invalid Number! %s Number must be exactly *%d digits*.", kind, b.flow.PhoneDigits))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(msg)
}
