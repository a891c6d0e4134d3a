package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	// authorization errors
	ErrNotTokenOwner = errors.New("caller is neither owner nor approved for token")

	// temporal errors
	ErrAuctionNotStarted = errors.New("auction has not started")
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrAuctionNotEnded   = errors.New("auction has not ended yet")

	// ordering / value errors
	ErrBidBelowReserve      = errors.New("bid below reserve price")
	ErrBidBelowMinIncrement = errors.New("bid does not meet minimum increment")
	ErrWrongCommitmentFee   = errors.New("attached value must equal commitment fee")
	ErrZeroDuration         = errors.New("duration must be positive")

	// state errors
	ErrAlreadySettled    = errors.New("auction already settled")
	ErrAuctionActive     = errors.New("token already has an active auction")
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// transfer errors
	ErrTransferFailed = errors.New("transfer failed")
)
