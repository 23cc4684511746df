package bot

import (
	"orderdesk-bot/internal/catalog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS
//
// Every label a keyboard offers must be accepted by the validator of the
// step it is shown at; Back and Cancel are handled before step dispatch.

func CreateMainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuAppOrder),
			tgbotapi.NewKeyboardButton(MenuWebsiteOrder),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuPromote),
			tgbotapi.NewKeyboardButton(MenuOrderHistory),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func CreateItemSelectionKeyboard(category catalog.Category) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	row := tgbotapi.NewKeyboardButtonRow()
	for _, item := range category.Items {
		row = append(row, tgbotapi.NewKeyboardButton(item.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = tgbotapi.NewKeyboardButtonRow()
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(MenuBack),
		tgbotapi.NewKeyboardButton(MenuCancel),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func CreateBackCancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuBack),
			tgbotapi.NewKeyboardButton(MenuCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func CreatePaymentMethodKeyboard(flow FlowConfig) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	row := tgbotapi.NewKeyboardButtonRow()
	for _, method := range flow.PaymentMethods {
		row = append(row, tgbotapi.NewKeyboardButton(method))
		if len(row) == 2 {
			rows = append(rows, row)
			row = tgbotapi.NewKeyboardButtonRow()
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(MenuBack),
		tgbotapi.NewKeyboardButton(MenuCancel),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
