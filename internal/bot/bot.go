package bot

import (
	"context"
	"fmt"
	"sync"

	"orderdesk-bot/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Top-level menu labels, matched before step dispatch: picking a menu
// action mid-order silently replaces the in-flight session.
const (
	MenuAppOrder     = "📱 App Order"
	MenuWebsiteOrder = "🌐 Website Order"
	MenuPromote      = "🚀 Promote App/Website"
	MenuOrderHistory = "🗂️ Order History"
	MenuBack         = "Back"
	MenuCancel       = "Cancel"
)

type Bot struct {
	tg       *tgbotapi.BotAPI
	api      Sender
	logger   *zap.Logger
	sessions SessionStore
	store    OrderStore
	cfg      *config.Config
	flow     FlowConfig

	handlers map[string]func(context.Context, int64, string)

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

func New(
	token string,
	sessions SessionStore,
	store OrderStore,
	logger *zap.Logger,
	cfg *config.Config,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := &Bot{
		tg:        botAPI,
		api:       botAPI,
		logger:    logger,
		sessions:  sessions,
		store:     store,
		cfg:       cfg,
		flow:      DefaultFlowConfig(),
		chatLocks: make(map[int64]*sync.Mutex),
	}

	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, int64, string){
		StepItemSelection:  b.handleItemSelection,
		StepName:           b.handleName,
		StepEmail:          b.handleEmail,
		StepTelegramNumber: b.handleTelegramNumber,
		StepWhatsappNumber: b.handleWhatsappNumber,
		StepPaymentMethod:  b.handlePaymentMethod,
		StepTransactionID:  b.handleTransactionID,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message

			// Events for the same chat are handled strictly in order;
			// different chats proceed concurrently.
			go func() {
				lock := b.chatLock(msg.Chat.ID)
				lock.Lock()
				defer lock.Unlock()
				b.processMessage(ctx, msg)
			}()
		}
	}
}

func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		b.chatLocks[chatID] = lock
	}
	return lock
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command())
		return
	}

	switch msg.Text {
	case MenuAppOrder:
		b.handleCategorySelection(ctx, chatID, OrderTypeApp)
		return
	case MenuWebsiteOrder:
		b.handleCategorySelection(ctx, chatID, OrderTypeWebsite)
		return
	case MenuPromote:
		b.handleCategorySelection(ctx, chatID, OrderTypePromotion)
		return
	case MenuOrderHistory:
		b.handleOrderHistory(ctx, chatID)
		return
	case MenuCancel:
		b.handleCancel(ctx, chatID)
		return
	case MenuBack:
		b.handleBack(ctx, chatID)
		return
	}

	session, ok, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get session",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong. Please try again.")
		return
	}
	if !ok {
		// Text from a user with no active session is ignored.
		b.logger.Debug("No active session, ignoring message",
			zap.Int64("chat_id", chatID))
		return
	}

	if handler, exists := b.handlers[session.Step]; exists {
		handler(ctx, chatID, msg.Text)
	} else {
		b.handleDefault(ctx, chatID)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
