package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate mockgen -destination=mocks/mock.go -package=mocks . Client

// Client is the slice of the Bot API the command handler needs. Text is sent
// as MarkdownV2; callers escape it.
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error)
	SendPhotoByUrl(chatID int64, url, caption string) (int, error)
	EditMessageText(chatID int64, messageID int, newText string) error
	EditMessageWithKeyboard(chatID int64, messageID int, newText string, keyboard tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string) error
}
