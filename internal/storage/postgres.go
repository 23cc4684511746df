package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"orderdesk-bot/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type PostgresStorage struct {
	db     *sqlx.DB
	cache  *redis.Client
	logger *zap.Logger
}

// Order is the durable artifact written once per completed session.
// Records are append-only: nothing in the bot updates or deletes them.
type Order struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Telegram      string    `db:"telegram"`
	Whatsapp      string    `db:"whatsapp"`
	OrderType     string    `db:"order_type"`
	ItemName      string    `db:"item_name"`
	ItemPrice     int       `db:"item_price"`
	PaymentMethod string    `db:"payment_method"`
	PaymentStatus string    `db:"payment_status"`
	TransactionID string    `db:"transaction_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// NewPostgresStorage connects to PostgreSQL with exponential-backoff
// retries. The cache client is optional; pass nil to disable statistics
// caching.
func NewPostgresStorage(ctx context.Context, cfg Config, cache *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		cache:  cache,
		logger: logger,
	}, nil
}

func (s *PostgresStorage) SaveOrder(ctx context.Context, order Order) (int64, error) {
	const query = `
        INSERT INTO orders (
            user_id, name, email, telegram, whatsapp, order_type,
            item_name, item_price, payment_method, payment_status,
            transaction_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `

	var orderID int64
	err := s.db.QueryRowContext(ctx, query,
		order.UserID,
		order.Name,
		order.Email,
		order.Telegram,
		order.Whatsapp,
		order.OrderType,
		order.ItemName,
		order.ItemPrice,
		order.PaymentMethod,
		order.PaymentStatus,
		order.TransactionID,
		order.CreatedAt,
	).Scan(&orderID)

	if err != nil {
		return 0, fmt.Errorf("failed to save order: %w", err)
	}

	// Invalidate statistics cache
	if s.cache != nil {
		if err := s.cache.Del(ctx, statsCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate statistics cache", zap.Error(err))
		}
	}

	return orderID, nil
}

// OrdersByUser returns every order placed by the user, oldest first.
func (s *PostgresStorage) OrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	const query = `
        SELECT id, user_id, name, email, telegram, whatsapp, order_type,
               item_name, item_price, payment_method, payment_status,
               transaction_id, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at ASC
    `

	var orders []Order
	if err := s.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

const statsCacheKey = "order_stats"

type OrderStatistics struct {
	TotalOrders  int     `db:"total_orders"`
	TotalRevenue float64 `db:"total_revenue"`
	TodayOrders  int
	WeekOrders   int
	MonthOrders  int
	StatusCounts map[string]int
}

func (s *PostgresStorage) OrderStatistics(ctx context.Context) (*OrderStatistics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats OrderStatistics
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &OrderStatistics{
		StatusCounts: make(map[string]int),
	}

	err := s.db.GetContext(ctx, stats, `
        SELECT
            COUNT(*) as total_orders,
            COALESCE(SUM(item_price), 0) as total_revenue
        FROM orders
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get order totals: %w", err)
	}

	windows := []struct {
		dest     *int
		interval string
	}{
		{&stats.TodayOrders, "1 day"},
		{&stats.WeekOrders, "7 days"},
		{&stats.MonthOrders, "30 days"},
	}
	for _, w := range windows {
		err := s.db.GetContext(ctx, w.dest, `
            SELECT COUNT(*)
            FROM orders
            WHERE created_at >= NOW() - $1::interval
        `, w.interval)
		if err != nil {
			return nil, fmt.Errorf("failed to get order count for last %s: %w", w.interval, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT payment_status, COUNT(*) as count
        FROM orders
        GROUP BY payment_status
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, data, time.Hour); err != nil {
				s.logger.Warn("Failed to cache order statistics", zap.Error(err))
			}
		}
	}

	return stats, nil
}

// DB exposes the raw database handle for the migration runner.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
