package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Telegram Bot API operations required by the bot.
type Client struct {
	api *tgbotapi.BotAPI
}

// New authenticates against the Telegram Bot API with the given token.
func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticate bot: %w", err)
	}
	return &Client{api: api}, nil
}

// Username returns the bot account's own username.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// Updates returns a long-polling channel of incoming updates.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopUpdates closes the long-polling channel.
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// SendMessage sends a Markdown text message to a chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send message to %d: %w", chatID, err)
	}
	return nil
}

// SendMessageWithButton sends a non-silent Markdown message with a single
// inline button carrying callbackData.
func (c *Client) SendMessageWithButton(chatID int64, text, buttonLabel, callbackData string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableNotification = false
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonLabel, callbackData),
		),
	)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send message to %d: %w", chatID, err)
	}
	return nil
}

// EditMessageText replaces the text of an already-delivered message.
func (c *Client) EditMessageText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(edit); err != nil {
		return fmt.Errorf("telegram: edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query with a short toast.
func (c *Client) AnswerCallback(callbackID, text string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}
