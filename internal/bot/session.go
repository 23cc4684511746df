package bot

import (
	"context"
	"sync"
)

// Conversation steps, in flow order.
const (
	StepItemSelection  = "item_selection"
	StepName           = "name"
	StepEmail          = "email"
	StepTelegramNumber = "telegram_number"
	StepWhatsappNumber = "whatsapp_number"
	StepPaymentMethod  = "payment_method"
	StepTransactionID  = "transaction_id"
)

const (
	PaymentStatusPending        = "Pending"
	PaymentStatusPaid           = "Paid"
	PaymentStatusCashOnDelivery = "Cash on Delivery"
)

// Session is one user's in-progress order, tracked until completion or
// cancellation. It lives only in the session store; a restart drops it.
type Session struct {
	OrderType      string `json:"order_type"`
	Step           string `json:"step"`
	ItemName       string `json:"item_name,omitempty"`
	ItemPrice      int    `json:"item_price,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	TelegramNumber string `json:"telegram_number,omitempty"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentStatus  string `json:"payment_status,omitempty"`
	TransactionID  string `json:"transaction_id,omitempty"`
}

// SessionStore keeps at most one session per chat. Setting a session for
// a chat silently replaces any in-flight one; starting a new order mid-flow
// drops the old answers without warning.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (Session, bool, error)
	Set(ctx context.Context, chatID int64, session Session) error
	Delete(ctx context.Context, chatID int64) error
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]Session),
	}
}

func (m *MemorySessionStore) Get(ctx context.Context, chatID int64) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[chatID]
	return session, ok, nil
}

func (m *MemorySessionStore) Set(ctx context.Context, chatID int64, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[chatID] = session
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}
