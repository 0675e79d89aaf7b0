// Package handlers exposes the state stores and flows to the demo UI.
package handlers

import (
	"log/slog"
	"sync"

	"aichat/internal/auth"
	"aichat/internal/chat"
	"aichat/internal/clock"
	"aichat/internal/config"
	"aichat/internal/countries"
	"aichat/internal/theme"
)

type Handler struct {
	Cfg       config.Config
	Auth      *auth.Store
	Flow      *auth.Flow
	Chat      *chat.Store
	Exchange  *chat.Exchange
	History   chat.HistorySource
	Countries *countries.Client
	Theme     *theme.Store
	Clock     clock.Clock
	Log       *slog.Logger

	// one pagination session per open room view
	mu         sync.Mutex
	paginators map[string]*chat.Paginator
}

func NewHandler(cfg config.Config, authStore *auth.Store, flow *auth.Flow, chatStore *chat.Store,
	exchange *chat.Exchange, history chat.HistorySource, countriesClient *countries.Client,
	themeStore *theme.Store, clk clock.Clock, log *slog.Logger) *Handler {
	return &Handler{
		Cfg:        cfg,
		Auth:       authStore,
		Flow:       flow,
		Chat:       chatStore,
		Exchange:   exchange,
		History:    history,
		Countries:  countriesClient,
		Theme:      themeStore,
		Clock:      clk,
		Log:        log,
		paginators: make(map[string]*chat.Paginator),
	}
}

func (h *Handler) paginatorFor(roomID string) *chat.Paginator {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.paginators[roomID]
	if !ok {
		p = chat.NewPaginator(h.Chat, h.History, h.Clock, roomID, chat.PaginatorConfig{
			ScrollThreshold: h.Cfg.ScrollThreshold,
			BatchSize:       h.Cfg.HistoryBatchSize,
			PageCap:         h.Cfg.PageCap,
			FetchCooldown:   h.Cfg.FetchCooldown,
		})
		h.paginators[roomID] = p
	}
	return p
}

func (h *Handler) dropPaginator(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.paginators, roomID)
}
