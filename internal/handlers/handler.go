package handlers

import (
	"studio-hub/internal/crew"
	"studio-hub/internal/gate"
	"studio-hub/internal/token"

	"go.uber.org/zap"
)

// Handler: HTTP-обработчики API. Данные берутся из database.DB,
// смена статусов идёт через Gate, состав съёмок через Crew.
type Handler struct {
	Gate   *gate.Gate
	Crew   *crew.Reconciler
	Tokens *token.Service
	Log    *zap.Logger
}

func New(g *gate.Gate, r *crew.Reconciler, tokens *token.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Gate: g, Crew: r, Tokens: tokens, Log: log}
}
