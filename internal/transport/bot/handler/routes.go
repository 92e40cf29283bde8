package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"deal_scout/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Все команды доступны только администратору
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnScan, th.CommandEqual("scan"))
	adminGroup.HandleMessage(h.OnRecent, th.CommandEqual("recent"))
	adminGroup.HandleMessage(h.OnThreshold, th.CommandEqual("threshold"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnRecentCallback, th.CallbackDataPrefix("recent_page"))
}
