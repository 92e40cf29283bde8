package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"deal_scout/internal/domain"
	"deal_scout/internal/transport/bot/view"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	var last *view.Run

	if stats, ok := h.planner.LastRun(); ok {
		last = &view.Run{
			StartedAt:     stats.StartedAt,
			Duration:      stats.Duration,
			Candidates:    stats.Candidates,
			Deals:         stats.Deals,
			Skipped:       stats.Skipped,
			Opportunities: stats.Opportunities,
		}
		if stats.Err != nil {
			last.Err = stats.Err.Error()
		}
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Status(h.planner.State().String(), h.planner.Threshold(), last))
}

// OnScan запускает проход в фоне и сразу отвечает идентификатором задачи.
func (h *Handler) OnScan(ctx *th.Context, msg telego.Message) error {
	taskID, err := h.trigger.Trigger(ctx)
	if domain.HasCode(err, errcodes.ScanInProgress) {
		return h.sendHTML(ctx, msg.Chat.ID, view.ScanInProgress)
	}
	if err != nil {
		logger(ctx).Error("bot: trigger scan", logx.Error(err))
		return h.sendHTML(ctx, msg.Chat.ID, view.ScanFailed)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ScanQueued, taskID))
}

// OnThreshold меняет порог скидки.
// Использование: /threshold 150
func (h *Handler) OnThreshold(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, view.ThresholdMissingArgument)
	}

	threshold, ok := parseThreshold(parts[1])
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.ThresholdInvalidFormat)
	}

	h.planner.SetThreshold(threshold)

	logger(ctx).Info("bot: threshold changed", "threshold", threshold)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ThresholdSuccess, view.Money(threshold)))
}

func (h *Handler) OnRecent(ctx *th.Context, msg telego.Message) error {
	text, keyboard, err := h.recentPage(ctx, 1)
	if err != nil {
		logger(ctx).Error("bot: load opportunities", logx.Error(err))
		return h.sendHTML(ctx, msg.Chat.ID, view.RecentError)
	}

	params := tu.Message(tu.ID(msg.Chat.ID), text).
		WithParseMode(telego.ModeHTML).
		WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: true})
	if keyboard != nil {
		params = params.WithReplyMarkup(keyboard)
	}

	_, err = ctx.Bot().SendMessage(ctx, params)
	return err
}

func (h *Handler) OnRecentCallback(ctx *th.Context, query telego.CallbackQuery) error {
	// Формат: "recent_page:<number>"
	var page int
	if _, err := fmt.Sscanf(query.Data, "recent_page:%d", &page); err != nil || page < 1 {
		page = 1
	}

	text, keyboard, err := h.recentPage(ctx, page)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.RecentError).WithShowAlert())
		return err
	}

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:             tu.ID(query.Message.GetChat().ID),
		MessageID:          query.Message.GetMessageID(),
		Text:               text,
		ParseMode:          telego.ModeHTML,
		ReplyMarkup:        keyboard,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
	})
	if err != nil {
		// Telegram отклоняет правку без изменений, это не ошибка.
		logger(ctx).Debug("bot: edit recent page", logx.Error(err))
	}

	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}

func (h *Handler) recentPage(ctx *th.Context, page int) (string, *telego.InlineKeyboardMarkup, error) {
	all, err := h.planner.Opportunities(ctx, 0)
	if err != nil {
		return "", nil, fmt.Errorf("planner.Opportunities: %w", err)
	}

	if len(all) == 0 {
		return view.RecentEmpty, nil, nil
	}

	start, end, page, totalPages := paginate(len(all), page, recentPageSize)

	return view.Recent(all[start:end], page, totalPages), paginationKeyboard(page, totalPages), nil
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}

func parseThreshold(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// paginate clamps page into range and returns the slice bounds for it.
func paginate(total, page, size int) (start, end, clamped, totalPages int) {
	totalPages = max((total+size-1)/size, 1)
	clamped = min(max(page, 1), totalPages)

	start = (clamped - 1) * size
	end = min(start+size, total)

	return start, end, clamped, totalPages
}

func paginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("recent_page:%d", page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("recent_page:%d", page+1)))
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(buttons...))
}
