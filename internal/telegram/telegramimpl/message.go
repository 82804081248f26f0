package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/fawazbook/pkg/retry"
)

const sendTimeout = 30 * time.Second

// SendMessage sends a MarkdownV2 message to a chat
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return tg.send(chatID, "SendMessage", msg)
}

func (tg *TelegramImpl) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = keyboard
	return tg.send(chatID, "SendMessageWithKeyboard", msg)
}

// SendPhotoByUrl lets Telegram fetch the image itself.
func (tg *TelegramImpl) SendPhotoByUrl(chatID int64, url, caption string) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	return tg.send(chatID, "SendPhoto", photo)
}

func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, newText string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, newText)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	return tg.request(chatID, "EditMessageText", edit)
}

func (tg *TelegramImpl) EditMessageWithKeyboard(chatID int64, messageID int, newText string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, newText, keyboard)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.DisableWebPagePreview = true
	return tg.request(chatID, "EditMessageWithKeyboard", edit)
}

func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	_, err := tg.TgBot.Request(tgbotapi.NewCallback(callbackID, text))
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// GetUpdatesChan wraps the bot's GetUpdatesChan method
func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.TgBot.StopReceivingUpdates()
}

func (tg *TelegramImpl) send(chatID int64, op string, c tgbotapi.Chattable) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	var sent tgbotapi.Message
	err := retry.Do(ctx, tg.Logger, op, retry.Telegram, func() error {
		var err error
		sent, err = tg.TgBot.Send(c)
		return classify(err)
	})
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "op", op, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Debug("Message sent", "chatID", chatID, "messageID", sent.MessageID)
	return sent.MessageID, nil
}

func (tg *TelegramImpl) request(chatID int64, op string, c tgbotapi.Chattable) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	err := retry.Do(ctx, tg.Logger, op, retry.Telegram, func() error {
		_, err := tg.TgBot.Request(c)
		return classify(err)
	})
	if err != nil && !isNotModified(err) {
		tg.Logger.Error("Error editing message", "chatID", chatID, "op", op, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// classify stops retries for errors Telegram will keep returning.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= http.StatusBadRequest && apiErr.Code < http.StatusInternalServerError &&
		apiErr.Code != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
