package handlers

import (
	"net/http"

	"github.com/termvault/staking-ledger-service/internal/types"
)

// GetStakerStakes godoc
// @Summary Get staker stakes
// @Description Retrieves stakes for a given staker, optionally filtered by asset kind or restricted to active stakes
// @Produce json
// @Param staker_address query string true "Staker address"
// @Param asset query string false "Filter by asset kind" Enums(native, token)
// @Param active query string false "Only return open stakes" Enums(true)
// @Success 200 {object} PublicResponse[[]services.StakePublic] "List of stakes with their positions"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/stakes [get]
func (h *Handler) GetStakerStakes(request *http.Request) (*Result, *types.Error) {
	stakerAddress := request.URL.Query().Get("staker_address")
	if stakerAddress == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "staker_address is required")
	}

	var asset *types.AssetKind
	if assetParam := request.URL.Query().Get("asset"); assetParam != "" {
		parsed, err := types.ParseAssetKind(assetParam)
		if err != nil {
			return nil, types.NewErrorWithMsg(
				http.StatusBadRequest, types.BadRequest, "asset must be one of: native, token",
			)
		}
		asset = &parsed
	}

	activeOnly := request.URL.Query().Get("active") == "true"

	stakes, err := h.services.StakerStakes(request.Context(), stakerAddress, asset, activeOnly)
	if err != nil {
		return nil, err
	}

	return NewResult(stakes), nil
}

// GetActiveStakes godoc
// @Summary Get all active stakes
// @Description Retrieves every open stake across all stakers, in creation order
// @Produce json
// @Success 200 {object} PublicResponse[[]services.GlobalStakePublic] "List of active stakes"
// @Router /v1/stakes/active [get]
func (h *Handler) GetActiveStakes(request *http.Request) (*Result, *types.Error) {
	stakes, err := h.services.ActiveStakes(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(stakes), nil
}

// GetStats godoc
// @Summary Get ledger stats
// @Description Aggregate active principal, custody balances and un-swept fees, split by asset kind
// @Produce json
// @Success 200 {object} PublicResponse[services.StatsPublic] "Ledger stats"
// @Router /v1/stats [get]
func (h *Handler) GetStats(request *http.Request) (*Result, *types.Error) {
	stats, err := h.services.GetStats(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(stats), nil
}

// GetPlans godoc
// @Summary Get plan registry
// @Description The fixed menu of staking terms and the current global fee percent
// @Produce json
// @Success 200 {object} PublicResponse[services.PlansPublic] "Plan registry"
// @Router /v1/plans [get]
func (h *Handler) GetPlans(request *http.Request) (*Result, *types.Error) {
	plans, err := h.services.GetPlans(request.Context())
	if err != nil {
		return nil, err
	}

	return NewResult(plans), nil
}
