package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"deal_scout/internal/transport/bot/handler"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals // skip

// Bot представляет собой Telegram-бота администратора.
type Bot struct {
	bot     *telego.Bot
	adminID int64
	handler *handler.Handler
}

// New создает новый экземпляр бота. Обновления читаются только в Run.
func New(token string, adminID int64, h *handler.Handler, opts ...telego.BotOption) (*Bot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &Bot{
		bot:     bot,
		adminID: adminID,
		handler: h,
	}, nil
}

// Run читает обновления через long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("th.NewBotHandler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminID)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot: handler stopped", logx.Error(err))
		}
	}()

	logger(ctx).Info("bot: started", "admin_id", b.adminID)

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("bot: stop handler", logx.Error(err))
	}

	return nil
}
