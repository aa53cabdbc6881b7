package services

import (
	"errors"
	"net/http"

	"github.com/termvault/staking-ledger-service/internal/db"
	"github.com/termvault/staking-ledger-service/internal/ledger"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// toServiceError maps ledger and db domain errors onto the public error
// taxonomy.
func toServiceError(err error) *types.Error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return types.NewError(http.StatusBadRequest, types.InvalidAmount, err)
	case errors.Is(err, ledger.ErrInvalidAsset):
		return types.NewError(http.StatusBadRequest, types.BadRequest, err)
	case errors.Is(err, ledger.ErrInvalidPlan):
		return types.NewError(http.StatusBadRequest, types.InvalidPlan, err)
	case errors.Is(err, ledger.ErrInvalidPercent):
		return types.NewError(http.StatusBadRequest, types.ValidationError, err)
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		return types.NewError(http.StatusNotFound, types.IndexOutOfRange, err)
	case errors.Is(err, ledger.ErrAlreadyClosed):
		return types.NewError(http.StatusConflict, types.AlreadyClosed, err)
	case errors.Is(err, ledger.ErrReentrantCall):
		return types.NewError(http.StatusConflict, types.ReentrantCall, err)
	case errors.Is(err, ledger.ErrUnauthorized):
		return types.NewError(http.StatusForbidden, types.Unauthorized, err)
	case errors.Is(err, ledger.ErrZeroAddress):
		return types.NewError(http.StatusBadRequest, types.ZeroAddress, err)
	case errors.Is(err, ledger.ErrInsufficientCustody):
		return types.NewError(http.StatusBadRequest, types.InsufficientCustodyBalance, err)
	case errors.Is(err, ledger.ErrNoFeesAvailable):
		return types.NewError(http.StatusBadRequest, types.NoFeesAvailable, err)
	case errors.Is(err, ledger.ErrFeeExceedsGross):
		return types.NewError(http.StatusInternalServerError, types.FeeExceedsGross, err)
	case errors.Is(err, ledger.ErrArithmeticOverflow):
		return types.NewInternalServiceError(err)
	case ledger.IsTransferError(err):
		return types.NewError(http.StatusBadGateway, types.TransferFailed, err)
	case db.IsDuplicateKeyError(err):
		return types.NewError(http.StatusConflict, types.BadRequest, err)
	case db.IsNotFoundError(err):
		return types.NewError(http.StatusNotFound, types.NotFound, err)
	default:
		return types.NewInternalServiceError(err)
	}
}
