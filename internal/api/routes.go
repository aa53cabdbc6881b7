package api

import (
	"github.com/go-chi/chi"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/stakes", registerHandler(handlers.CreateStake))
	r.Post("/v1/stakes/withdraw", registerHandler(handlers.WithdrawStake))
	r.Get("/v1/stakes", registerHandler(handlers.GetStakerStakes))
	r.Get("/v1/stakes/active", registerHandler(handlers.GetActiveStakes))
	r.Get("/v1/stats", registerHandler(handlers.GetStats))
	r.Get("/v1/plans", registerHandler(handlers.GetPlans))

	r.Post("/v1/admin/sweep-fees", registerHandler(handlers.SweepFees))
	r.Post("/v1/admin/emergency-withdraw", registerHandler(handlers.EmergencyWithdrawAll))
	r.Post("/v1/admin/transfer-admin", registerHandler(handlers.TransferAdministrator))
	r.Post("/v1/admin/token-address", registerHandler(handlers.SetTokenCollaborator))
	r.Post("/v1/admin/fee-percent", registerHandler(handlers.SetFeePercent))
	r.Post("/v1/admin/plan", registerHandler(handlers.SetPlan))
}
