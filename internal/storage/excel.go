package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportOrdersToExcel writes the full order book to an .xlsx report and
// returns its path.
func (s *PostgresStorage) ExportOrdersToExcel(ctx context.Context) (string, error) {
	const query = `
        SELECT id, user_id, name, email, telegram, whatsapp, order_type,
               item_name, item_price, payment_method, payment_status,
               transaction_id, created_at
        FROM orders
        ORDER BY created_at ASC
    `
	var orders []Order
	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		return "", fmt.Errorf("failed to fetch orders: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "User ID", "Name", "Email", "Telegram", "WhatsApp",
		"Order Type", "Item", "Price", "Payment Method", "Payment Status",
		"Transaction ID", "Created At",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, order := range orders {
		data := []interface{}{
			order.ID,
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
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, style)

	f.SetActiveSheet(index)

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/orders_%s.xlsx", time.Now().Format("20060102_1504"))
	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}
