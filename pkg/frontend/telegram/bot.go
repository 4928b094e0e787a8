// Package telegram is a chat frontend over the note synchronizer: a thin
// view that turns bot commands into list, search, create, pin and delete
// intents and renders the resulting collection back as messages.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/fault"
	"github.com/gophertribe/notesync/pkg/notes"
	"github.com/gophertribe/notesync/pkg/syncer"
)

// Bot long-polls Telegram and forwards commands to the synchronizer.
type Bot struct {
	API    *tgbotapi.BotAPI
	sync   *syncer.Synchronizer
	log    zerolog.Logger
	stopCh chan struct{}
}

// NewBot creates a Telegram bot bound to sync.
func NewBot(token string, sync *syncer.Synchronizer, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}

	return &Bot{
		API:    api,
		sync:   sync,
		log:    log,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins polling for updates in a goroutine.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.API.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-b.stopCh:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					b.handleMessage(update.Message)
				}
			}
		}
	}()

	return nil
}

// Stop stops polling for updates.
func (b *Bot) Stop() {
	close(b.stopCh)
	b.API.StopReceivingUpdates()
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	command, args := ParseCommand(msg.Text)

	switch command {
	case "/notes":
		if err := b.sync.FetchAll(ctx); err != nil {
			b.replyError(msg, err)
			return
		}
		b.reply(msg, FormatList(b.sync.Notes()))
	case "/search":
		if err := b.sync.Search(ctx, args); err != nil {
			b.replyError(msg, err)
			return
		}
		b.reply(msg, FormatList(b.sync.Notes()))
	case "/add":
		title, content := SplitTitleContent(args)
		if err := b.sync.Save(ctx, "", notes.Fields{Title: title, Content: content}); err != nil {
			b.replyError(msg, err)
			return
		}
		b.reply(msg, "Note added")
	case "/pin":
		if err := b.sync.TogglePin(ctx, strings.TrimSpace(args)); err != nil {
			b.replyError(msg, err)
			return
		}
		b.reply(msg, "Pin toggled")
	case "/rm":
		if err := b.sync.Delete(ctx, strings.TrimSpace(args)); err != nil {
			b.replyError(msg, err)
			return
		}
		b.reply(msg, "Note deleted")
	case "/status":
		b.reply(msg, "notesync is online.")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.API.Send(reply); err != nil {
		b.log.Error().Err(err).Msg("failed to send Telegram reply")
	}
}

func (b *Bot) replyError(msg *tgbotapi.Message, err error) {
	text := "Something went wrong."
	if f, ok := fault.As(err); ok {
		text = f.Message
	}
	b.reply(msg, text)
}

// ParseCommand splits a message into its leading slash command and the
// remaining arguments. Non-command text yields an empty command.
func ParseCommand(text string) (command, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, args, _ = strings.Cut(text, " ")
	return command, strings.TrimSpace(args)
}

// SplitTitleContent splits "title | content" input; without a separator
// the whole text is both title and content.
func SplitTitleContent(text string) (title, content string) {
	if t, c, ok := strings.Cut(text, "|"); ok {
		return strings.TrimSpace(t), strings.TrimSpace(c)
	}
	text = strings.TrimSpace(text)
	return text, text
}

// FormatNote renders a single note line for chat output.
func FormatNote(n notes.Note) string {
	marker := " "
	if n.IsPinned {
		marker = "*"
	}
	return fmt.Sprintf("%s %s  %s", marker, n.ID, n.Title)
}

// FormatList renders the collection, or a placeholder when it is empty.
func FormatList(list []notes.Note) string {
	if len(list) == 0 {
		return "No notes found."
	}
	lines := make([]string, 0, len(list))
	for _, n := range list {
		lines = append(lines, FormatNote(n))
	}
	return strings.Join(lines, "\n")
}
