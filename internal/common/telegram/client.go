// internal/common/telegram/client.go
package telegram

import (
	"context"
	"fmt"

	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client implements transport.Responder on top of the Bot API and turns updates into events.
type Client struct {
	bot         *tgbotapi.BotAPI
	pollTimeout int
	logger      logger.Logger
}

func NewClient(token string, pollTimeout int, debug bool, log logger.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login failed: %w", err)
	}
	bot.Debug = debug

	return &Client{
		bot:         bot,
		pollTimeout: pollTimeout,
		logger:      log.WithFields(map[string]interface{}{"component": "telegram", "bot": bot.Self.UserName}),
	}, nil
}

// Username is the bot's own @username.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

func (c *Client) Send(ctx context.Context, msg transport.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	cfg.ReplyToMessageID = msg.ReplyTo
	cfg.ParseMode = msg.ParseMode
	if len(msg.Keyboard) > 0 {
		cfg.ReplyMarkup = inlineKeyboard(msg.Keyboard)
	}

	_, err := c.bot.Send(cfg)
	return err
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileRef, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileRef))
	photo.Caption = caption
	_, err := c.bot.Send(photo)
	return err
}

func (c *Client) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := c.bot.Send(doc)
	return err
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	_, err := c.bot.Request(cfg)
	return err
}

// Events long-polls for updates until ctx is cancelled. Updates the bot does not
// understand are dropped.
func (c *Client) Events(ctx context.Context) <-chan transport.Event {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout

	updates := c.bot.GetUpdatesChan(u)
	events := make(chan transport.Event)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				event, ok := ToEvent(update)
				if !ok {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					c.bot.StopReceivingUpdates()
					return
				}
			}
		}
	}()

	c.logger.Info("polling for updates", map[string]interface{}{"timeout": c.pollTimeout})
	return events
}

func inlineKeyboard(kb transport.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
