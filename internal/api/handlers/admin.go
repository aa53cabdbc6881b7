package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/termvault/staking-ledger-service/internal/types"
)

type AdminRequestPayload struct {
	AdminAddress string `json:"admin_address"`
}

func parseAdminRequestPayload(request *http.Request, payload interface{ adminAddress() string }) *types.Error {
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.adminAddress() == "" {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "admin_address is required",
		)
	}
	return nil
}

func (p *AdminRequestPayload) adminAddress() string {
	return p.AdminAddress
}

// SweepFees godoc
// @Summary Sweep accrued fees
// @Description Resets both fee accumulators and transfers the accrued amounts to the administrator
// @Accept json
// @Produce json
// @Param payload body AdminRequestPayload true "Admin Payload"
// @Success 200 {object} PublicResponse[services.SweepPublic] "Swept amounts"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/sweep-fees [post]
func (h *Handler) SweepFees(request *http.Request) (*Result, *types.Error) {
	payload := &AdminRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	swept, err := h.services.SweepFees(request.Context(), payload.AdminAddress)
	if err != nil {
		return nil, err
	}

	return NewResult(swept), nil
}

// EmergencyWithdrawAll godoc
// @Summary Emergency withdraw
// @Description Circuit breaker: closes every open stake with payout 0, zeroes the fee accumulators and drains custody to the administrator
// @Accept json
// @Produce json
// @Param payload body AdminRequestPayload true "Admin Payload"
// @Success 200 {object} PublicResponse[services.EmergencyPublic] "Emergency receipt"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/emergency-withdraw [post]
func (h *Handler) EmergencyWithdrawAll(request *http.Request) (*Result, *types.Error) {
	payload := &AdminRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	receipt, err := h.services.EmergencyWithdrawAll(request.Context(), payload.AdminAddress)
	if err != nil {
		return nil, err
	}

	return NewResult(receipt), nil
}

type TransferAdminRequestPayload struct {
	AdminRequestPayload
	NewAdminAddress string `json:"new_admin_address"`
}

// TransferAdministrator godoc
// @Summary Transfer administrator role
// @Accept json
// @Produce json
// @Param payload body TransferAdminRequestPayload true "Transfer Payload"
// @Success 200 "Administrator transferred"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/transfer-admin [post]
func (h *Handler) TransferAdministrator(request *http.Request) (*Result, *types.Error) {
	payload := &TransferAdminRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	if err := h.services.TransferAdministrator(
		request.Context(), payload.AdminAddress, payload.NewAdminAddress,
	); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}

type SetTokenAddressRequestPayload struct {
	AdminRequestPayload
	TokenAddress string `json:"token_address"`
}

// SetTokenCollaborator godoc
// @Summary Reconfigure the token collaborator address
// @Accept json
// @Produce json
// @Param payload body SetTokenAddressRequestPayload true "Token Address Payload"
// @Success 200 "Token collaborator reconfigured"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/token-address [post]
func (h *Handler) SetTokenCollaborator(request *http.Request) (*Result, *types.Error) {
	payload := &SetTokenAddressRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	if err := h.services.SetTokenCollaborator(
		request.Context(), payload.AdminAddress, payload.TokenAddress,
	); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}

type SetFeePercentRequestPayload struct {
	AdminRequestPayload
	FeePercent uint64 `json:"fee_percent"`
}

// SetFeePercent godoc
// @Summary Update the global fee percent
// @Accept json
// @Produce json
// @Param payload body SetFeePercentRequestPayload true "Fee Percent Payload"
// @Success 200 "Fee percent updated"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/fee-percent [post]
func (h *Handler) SetFeePercent(request *http.Request) (*Result, *types.Error) {
	payload := &SetFeePercentRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	if err := h.services.SetFeePercent(
		request.Context(), payload.AdminAddress, payload.FeePercent,
	); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}

type SetPlanRequestPayload struct {
	AdminRequestPayload
	TermMonths      uint32 `json:"term_months"`
	DurationSeconds int64  `json:"duration_seconds"`
	RewardPercent   uint64 `json:"reward_percent"`
}

// SetPlan godoc
// @Summary Add or replace one plan registry entry
// @Accept json
// @Produce json
// @Param payload body SetPlanRequestPayload true "Plan Payload"
// @Success 200 "Plan registry updated"
// @Failure 403 {object} types.Error "Caller is not the administrator"
// @Router /v1/admin/plan [post]
func (h *Handler) SetPlan(request *http.Request) (*Result, *types.Error) {
	payload := &SetPlanRequestPayload{}
	if err := parseAdminRequestPayload(request, payload); err != nil {
		return nil, err
	}

	if err := h.services.SetPlan(request.Context(), payload.AdminAddress, types.Plan{
		TermMonths:      payload.TermMonths,
		DurationSeconds: payload.DurationSeconds,
		RewardPercent:   payload.RewardPercent,
	}); err != nil {
		return nil, err
	}

	return &Result{Status: http.StatusOK}, nil
}
