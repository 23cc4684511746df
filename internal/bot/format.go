package bot

import (
	"fmt"
	"strings"

	"orderdesk-bot/internal/storage"
)

func FormatAdminNotification(order storage.Order) string {
	return fmt.Sprintf(
		"📥 New Order Received!\n\n"+
			"👤 Name: %s\n"+
			"📧 Email: %s\n"+
			"💬 Telegram: %s\n"+
			"📱 WhatsApp: %s\n"+
			"🛒 Order Type: %s\n"+
			"📦 Item: %s\n"+
			"💵 Payment Method: %s\n"+
			"📋 Transaction ID: %s\n"+
			"⚡ Payment Status: %s",
		order.Name,
		order.Email,
		order.Telegram,
		order.Whatsapp,
		order.OrderType,
		formatItem(order),
		order.PaymentMethod,
		order.TransactionID,
		order.PaymentStatus,
	)
}

func formatItem(order storage.Order) string {
	if order.ItemName == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d৳)", order.ItemName, order.ItemPrice)
}

func FormatOrderHistory(orders []storage.Order) string {
	var sb strings.Builder
	sb.WriteString("🗂️ Your Orders:\n\n")
	for _, order := range orders {
		sb.WriteString(fmt.Sprintf(
			"• Type: %s\n• Payment: %s\n• Payment Status: %s\n• Date: %s\n\n",
			order.OrderType,
			order.PaymentMethod,
			order.PaymentStatus,
			order.CreatedAt.Format("02.01.2006 15:04"),
		))
	}
	return sb.String()
}

func FormatOrderStatistics(stats *storage.OrderStatistics) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"📊 Order Statistics\n\n"+
			"Total orders: %d\n"+
			"Total revenue: %.0f৳\n"+
			"Today: %d\n"+
			"Last 7 days: %d\n"+
			"Last 30 days: %d\n",
		stats.TotalOrders,
		stats.TotalRevenue,
		stats.TodayOrders,
		stats.WeekOrders,
		stats.MonthOrders,
	))
	if len(stats.StatusCounts) > 0 {
		sb.WriteString("\nBy payment status:\n")
		for _, status := range []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusCashOnDelivery} {
			if count, ok := stats.StatusCounts[status]; ok {
				sb.WriteString(fmt.Sprintf("- %s: %d\n", status, count))
			}
		}
	}
	return sb.String()
}
