package telegram

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Sender uploads archives as documents to one chat.
type Sender struct {
	bot  *tele.Bot
	chat tele.Recipient
}

type Options struct {
	Token  string
	ChatID int64
	// URL overrides the Bot API endpoint.
	URL     string
	Timeout time.Duration
}

func New(opts Options) (*Sender, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}

	b, err := tele.NewBot(tele.Settings{
		URL:     opts.URL,
		Token:   opts.Token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Sender{bot: b, chat: tele.ChatID(opts.ChatID)}, nil
}

func (s *Sender) SendArchive(ctx context.Context, path, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: filepath.Base(path),
		Caption:  caption,
	}
	if _, err := s.bot.Send(s.chat, doc); err != nil {
		return fmt.Errorf("telegram: send %s: %w", doc.FileName, err)
	}
	return nil
}
