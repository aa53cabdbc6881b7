package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/termvault/staking-ledger-service/internal/types"
)

type CreateStakeRequestPayload struct {
	StakerAddress string `json:"staker_address"`
	Amount        uint64 `json:"amount"`
	Asset         string `json:"asset"`
	TermMonths    uint32 `json:"term_months"`
}

func parseCreateStakeRequestPayload(request *http.Request) (*CreateStakeRequestPayload, types.AssetKind, *types.Error) {
	payload := &CreateStakeRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.StakerAddress == "" {
		return nil, "", types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "staker_address is required",
		)
	}
	asset, err := types.ParseAssetKind(payload.Asset)
	if err != nil {
		return nil, "", types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "asset must be one of: native, token",
		)
	}
	return payload, asset, nil
}

// CreateStake godoc
// @Summary Create stake
// @Description Locks principal of the given asset kind for a fixed term.
// @Accept json
// @Produce json
// @Param payload body CreateStakeRequestPayload true "Stake Creation Payload"
// @Success 200 {object} PublicResponse[services.CreateStakePublic] "The created stake and its position"
// @Failure 400 {object} types.Error "Invalid request payload"
// @Router /v1/stakes [post]
func (h *Handler) CreateStake(request *http.Request) (*Result, *types.Error) {
	payload, asset, err := parseCreateStakeRequestPayload(request)
	if err != nil {
		return nil, err
	}

	created, createErr := h.services.CreateStake(
		request.Context(), payload.StakerAddress, payload.Amount, asset, payload.TermMonths,
	)
	if createErr != nil {
		return nil, createErr
	}

	return NewResult(created), nil
}

type WithdrawStakeRequestPayload struct {
	StakerAddress string  `json:"staker_address"`
	Position      *uint64 `json:"position"`
}

// WithdrawStake godoc
// @Summary Withdraw stake
// @Description Closes the stake at the given position and pays out principal plus reward (matured) or principal minus fee (early).
// @Accept json
// @Produce json
// @Param payload body WithdrawStakeRequestPayload true "Withdrawal Payload"
// @Success 200 {object} PublicResponse[services.WithdrawPublic] "The committed accounting split"
// @Failure 400 {object} types.Error "Invalid request payload"
// @Router /v1/stakes/withdraw [post]
func (h *Handler) WithdrawStake(request *http.Request) (*Result, *types.Error) {
	payload := &WithdrawStakeRequestPayload{}
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.StakerAddress == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "staker_address is required",
		)
	}
	if payload.Position == nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "position is required",
		)
	}

	withdrawn, err := h.services.WithdrawStake(request.Context(), payload.StakerAddress, *payload.Position)
	if err != nil {
		return nil, err
	}

	return NewResult(withdrawn), nil
}
