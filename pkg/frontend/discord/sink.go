// Package discord forwards the synchronizer's confirmations to a Discord
// channel, the chat equivalent of the web client's toast messages.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/gophertribe/notesync/pkg/syncer"
)

// Sink posts notifications to one channel over the Discord REST API. No
// gateway connection is opened; the sink only sends.
type Sink struct {
	Session   *discordgo.Session
	ChannelID string
	log       zerolog.Logger
}

var _ syncer.Notifier = (*Sink)(nil)

// NewSink creates a Sink for the given bot token and channel.
func NewSink(token, channelID string, log zerolog.Logger) (*Sink, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	return &Sink{Session: session, ChannelID: channelID, log: log}, nil
}

// Notify posts the message. Delivery failures are logged, never surfaced:
// a lost toast must not fail the operation it confirms.
func (s *Sink) Notify(message string, kind syncer.ToastKind) {
	if _, err := s.Session.ChannelMessageSend(s.ChannelID, decorate(message, kind)); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("failed to send Discord notification")
	}
}

func decorate(message string, kind syncer.ToastKind) string {
	switch kind {
	case syncer.ToastError:
		return "⚠️ " + message
	default:
		return "✅ " + message
	}
}
