package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"orderdesk-bot/internal/config"
	"orderdesk-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const testAdminID int64 = 999

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns every plain message sent so far, in order.
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeSender) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeStore struct {
	mu      sync.Mutex
	orders  []storage.Order
	nextID  int64
	saveErr error
}

func (f *fakeStore) SaveOrder(ctx context.Context, order storage.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, order)
	return order.ID, nil
}

func (f *fakeStore) OrdersByUser(ctx context.Context, userID int64) ([]storage.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []storage.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeStore) OrderStatistics(ctx context.Context) (*storage.OrderStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &storage.OrderStatistics{StatusCounts: make(map[string]int)}
	for _, order := range f.orders {
		stats.TotalOrders++
		stats.TotalRevenue += float64(order.ItemPrice)
		stats.StatusCounts[order.PaymentStatus]++
	}
	return stats, nil
}

func (f *fakeStore) ExportOrdersToExcel(ctx context.Context) (string, error) {
	return "reports/orders_test.xlsx", nil
}

func (f *fakeStore) saved() []storage.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.Order(nil), f.orders...)
}

func newTestBot() (*Bot, *fakeSender, *fakeStore) {
	sender := &fakeSender{}
	store := &fakeStore{}

	b := &Bot{
		api:       sender,
		logger:    zap.NewNop(),
		sessions:  NewMemorySessionStore(),
		store:     store,
		cfg:       &config.Config{AdminID: testAdminID},
		flow:      DefaultFlowConfig(),
		chatLocks: make(map[int64]*sync.Mutex),
	}
	b.registerHandlers()
	return b, sender, store
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID},
	}
}

func commandMessage(chatID int64, command string) *tgbotapi.Message {
	msg := textMessage(chatID, command)
	msg.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return msg
}

func feed(b *Bot, chatID int64, inputs ...string) {
	ctx := context.Background()
	for _, input := range inputs {
		b.processMessage(ctx, textMessage(chatID, input))
	}
}

func TestFullPaidFlow(t *testing.T) {
	b, _, store := newTestBot()
	const chatID int64 = 42

	feed(b, chatID,
		MenuAppOrder,
		"APP-2",
		"Alice",
		"alice@gmail.com",
		"01318645435",
		"01318645436",
		"Bkash",
		"TX-9F2A",
	)

	orders := store.saved()
	if len(orders) != 1 {
		t.Fatalf("saved %d orders, want 1", len(orders))
	}

	order := orders[0]
	if order.UserID != chatID {
		t.Errorf("UserID = %d, want %d", order.UserID, chatID)
	}
	if order.Name != "Alice" || order.Email != "alice@gmail.com" {
		t.Errorf("identity fields = %q/%q", order.Name, order.Email)
	}
	if order.Telegram != "01318645435" || order.Whatsapp != "01318645436" {
		t.Errorf("phone fields = %q/%q", order.Telegram, order.Whatsapp)
	}
	if order.OrderType != OrderTypeApp || order.ItemName != "APP-2" || order.ItemPrice != 3500 {
		t.Errorf("order fields = %q/%q/%d", order.OrderType, order.ItemName, order.ItemPrice)
	}
	if order.PaymentMethod != "Bkash" || order.PaymentStatus != PaymentStatusPaid || order.TransactionID != "TX-9F2A" {
		t.Errorf("payment fields = %q/%q/%q", order.PaymentMethod, order.PaymentStatus, order.TransactionID)
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	if _, ok, _ := b.sessions.Get(context.Background(), chatID); ok {
		t.Error("session still present after completion")
	}
}

func TestCashOnDeliverySkipsTransactionID(t *testing.T) {
	b, _, store := newTestBot()
	const chatID int64 = 7

	feed(b, chatID,
		MenuPromote,
		"PROMOT-1",
		"Bob",
		"bob@gmail.com",
		"01318645435",
		"01318645435",
		"Cash on Delivery",
	)

	orders := store.saved()
	if len(orders) != 1 {
		t.Fatalf("saved %d orders, want 1", len(orders))
	}
	order := orders[0]
	if order.PaymentStatus != PaymentStatusCashOnDelivery {
		t.Errorf("PaymentStatus = %q, want %q", order.PaymentStatus, PaymentStatusCashOnDelivery)
	}
	if order.TransactionID != "N/A" {
		t.Errorf("TransactionID = %q, want N/A", order.TransactionID)
	}

	if _, ok, _ := b.sessions.Get(context.Background(), chatID); ok {
		t.Error("session still present after completion")
	}
}

func TestInvalidEmailNeverAdvances(t *testing.T) {
	b, _, _ := newTestBot()
	const chatID int64 = 11
	ctx := context.Background()

	feed(b, chatID, MenuWebsiteOrder, "WEBSITE-1", "Carol")

	for _, bad := range []string{"carol@yahoo.com", "carol@gmail", "carolgmail.com", "carol@yahoo.com"} {
		feed(b, chatID, bad)
		session, ok, _ := b.sessions.Get(ctx, chatID)
		if !ok {
			t.Fatal("session vanished")
		}
		if session.Step != StepEmail {
			t.Fatalf("after %q step = %q, want %q", bad, session.Step, StepEmail)
		}
		if session.Email != "" {
			t.Fatalf("invalid email %q stored", session.Email)
		}
	}

	feed(b, chatID, "carol@gmail.com")
	session, _, _ := b.sessions.Get(ctx, chatID)
	if session.Step != StepTelegramNumber {
		t.Errorf("valid email did not advance, step = %q", session.Step)
	}
}

func TestPhoneNumberRejection(t *testing.T) {
	b, _, _ := newTestBot()
	const chatID int64 = 12
	ctx := context.Background()

	feed(b, chatID, MenuAppOrder, "APP-1", "Dave", "dave@gmail.com")

	for _, bad := range []string{"0131864543", "013186454355", "0131864543a"} {
		feed(b, chatID, bad)
		session, _, _ := b.sessions.Get(ctx, chatID)
		if session.Step != StepTelegramNumber {
			t.Fatalf("after %q step = %q, want %q", bad, session.Step, StepTelegramNumber)
		}
	}

	feed(b, chatID, "01318645435")
	session, _, _ := b.sessions.Get(ctx, chatID)
	if session.Step != StepWhatsappNumber {
		t.Errorf("valid number did not advance, step = %q", session.Step)
	}
}

func TestCancelDeletesSessionWithoutOrder(t *testing.T) {
	b, sender, store := newTestBot()
	const chatID int64 = 13

	feed(b, chatID, MenuAppOrder, "APP-1", "Eve", "eve@gmail.com", MenuCancel)

	if _, ok, _ := b.sessions.Get(context.Background(), chatID); ok {
		t.Error("session survived cancel")
	}
	if len(store.saved()) != 0 {
		t.Error("cancel produced an order record")
	}

	var sawCancelled bool
	for _, text := range sender.texts() {
		if strings.Contains(text, "cancelled") {
			sawCancelled = true
		}
	}
	if !sawCancelled {
		t.Error("no cancellation message sent")
	}
}

func TestBackResetsWholeSession(t *testing.T) {
	b, _, _ := newTestBot()
	const chatID int64 = 14

	feed(b, chatID, MenuAppOrder, "APP-1", "Frank", "frank@gmail.com", MenuBack)

	if _, ok, _ := b.sessions.Get(context.Background(), chatID); ok {
		t.Error("back kept the session; it resets entirely")
	}
}

func TestNewSelectionOverwritesInFlightSession(t *testing.T) {
	b, _, _ := newTestBot()
	const chatID int64 = 15
	ctx := context.Background()

	feed(b, chatID, MenuAppOrder, "APP-1", "Grace", MenuWebsiteOrder)

	session, ok, _ := b.sessions.Get(ctx, chatID)
	if !ok {
		t.Fatal("no session after restart")
	}
	if session.OrderType != OrderTypeWebsite || session.Step != StepItemSelection {
		t.Errorf("session = %+v, want fresh website order", session)
	}
	if session.Name != "" || session.ItemName != "" {
		t.Errorf("restart kept old answers: %+v", session)
	}
}

func TestPersistenceFailureKeepsSession(t *testing.T) {
	b, sender, store := newTestBot()
	const chatID int64 = 16
	ctx := context.Background()

	store.saveErr = context.DeadlineExceeded

	feed(b, chatID,
		MenuAppOrder, "APP-1", "Heidi", "heidi@gmail.com",
		"01318645435", "01318645435", "Nagad", "TX-1",
	)

	if len(store.saved()) != 0 {
		t.Fatal("order saved despite store failure")
	}
	session, ok, _ := b.sessions.Get(ctx, chatID)
	if !ok {
		t.Fatal("session deleted on persistence failure; must stay for retry")
	}
	if session.Step != StepTransactionID {
		t.Errorf("step = %q, want %q", session.Step, StepTransactionID)
	}
	if !strings.Contains(sender.lastText(), "Could not save") {
		t.Errorf("user not told about save failure, last = %q", sender.lastText())
	}

	// Retry succeeds once the store recovers.
	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()

	feed(b, chatID, "TX-1")
	if len(store.saved()) != 1 {
		t.Fatal("retry did not save the order")
	}
	if _, ok, _ := b.sessions.Get(ctx, chatID); ok {
		t.Error("session still present after successful retry")
	}
}

func TestOrderHistoryEmpty(t *testing.T) {
	b, sender, _ := newTestBot()
	const chatID int64 = 17

	feed(b, chatID, MenuOrderHistory)

	if got := sender.lastText(); got != "❌ You have no previous orders." {
		t.Errorf("empty history message = %q", got)
	}
}

func TestOrderHistoryRendersAllRecords(t *testing.T) {
	b, sender, store := newTestBot()
	const chatID int64 = 18

	store.orders = []storage.Order{
		{
			UserID:        chatID,
			OrderType:     OrderTypeApp,
			PaymentMethod: "Bkash",
			PaymentStatus: PaymentStatusPaid,
			CreatedAt:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			UserID:        chatID,
			OrderType:     OrderTypePromotion,
			PaymentMethod: "Cash on Delivery",
			PaymentStatus: PaymentStatusCashOnDelivery,
			CreatedAt:     time.Date(2025, 4, 2, 12, 30, 0, 0, time.UTC),
		},
		{UserID: 9999, OrderType: OrderTypeWebsite}, // someone else's
	}

	feed(b, chatID, MenuOrderHistory)

	history := sender.lastText()
	for _, want := range []string{OrderTypeApp, OrderTypePromotion, "01.03.2025 10:00", "02.04.2025 12:30"} {
		if !strings.Contains(history, want) {
			t.Errorf("history missing %q:\n%s", want, history)
		}
	}
	if strings.Contains(history, OrderTypeWebsite) {
		t.Error("history leaked another user's order")
	}
}

func TestTextWithoutSessionIsIgnored(t *testing.T) {
	b, sender, _ := newTestBot()

	feed(b, 19, "hello there")

	if texts := sender.texts(); len(texts) != 0 {
		t.Errorf("unexpected replies: %v", texts)
	}
}

func TestConcurrentUsersAreIsolated(t *testing.T) {
	b, _, store := newTestBot()

	flows := map[int64][]string{
		100: {MenuAppOrder, "APP-4", "Ivan", "ivan@gmail.com", "01111111111", "01111111112", "Rocket", "TX-A"},
		200: {MenuWebsiteOrder, "WEBSITE-3", "Judy", "judy@gmail.com", "02222222222", "02222222223", "Cash on Delivery"},
	}

	var wg sync.WaitGroup
	for chatID, inputs := range flows {
		wg.Add(1)
		go func(chatID int64, inputs []string) {
			defer wg.Done()
			ctx := context.Background()
			for _, input := range inputs {
				lock := b.chatLock(chatID)
				lock.Lock()
				b.processMessage(ctx, textMessage(chatID, input))
				lock.Unlock()
			}
		}(chatID, inputs)
	}
	wg.Wait()

	orders := store.saved()
	if len(orders) != 2 {
		t.Fatalf("saved %d orders, want 2", len(orders))
	}

	byUser := make(map[int64]storage.Order)
	for _, order := range orders {
		byUser[order.UserID] = order
	}

	ivan := byUser[100]
	if ivan.Name != "Ivan" || ivan.ItemName != "APP-4" || ivan.Telegram != "01111111111" {
		t.Errorf("user 100 order corrupted: %+v", ivan)
	}
	judy := byUser[200]
	if judy.Name != "Judy" || judy.ItemName != "WEBSITE-3" || judy.PaymentStatus != PaymentStatusCashOnDelivery {
		t.Errorf("user 200 order corrupted: %+v", judy)
	}
}

func TestAdminStatsIgnoredForNonAdmin(t *testing.T) {
	b, sender, _ := newTestBot()

	b.processMessage(context.Background(), commandMessage(21, "/stats"))

	if texts := sender.texts(); len(texts) != 0 {
		t.Errorf("non-admin /stats got replies: %v", texts)
	}
}

func TestAdminStatsAndExport(t *testing.T) {
	b, sender, store := newTestBot()
	ctx := context.Background()

	store.orders = []storage.Order{
		{UserID: 1, ItemPrice: 2500, PaymentStatus: PaymentStatusPaid},
		{UserID: 2, ItemPrice: 700, PaymentStatus: PaymentStatusCashOnDelivery},
	}

	b.processMessage(ctx, commandMessage(testAdminID, "/stats"))
	statsText := sender.lastText()
	for _, want := range []string{"Total orders: 2", "3200"} {
		if !strings.Contains(statsText, want) {
			t.Errorf("stats missing %q:\n%s", want, statsText)
		}
	}

	b.processMessage(ctx, commandMessage(testAdminID, "/export"))
	sender.mu.Lock()
	defer sender.mu.Unlock()
	var sawDocument bool
	for _, c := range sender.sent {
		if _, ok := c.(tgbotapi.DocumentConfig); ok {
			sawDocument = true
		}
	}
	if !sawDocument {
		t.Error("/export sent no document")
	}
}
