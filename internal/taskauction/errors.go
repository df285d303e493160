package taskauction

import "errors"

var (
	ErrInvalidName        = errors.New("user name is required")
	ErrInvalidBid         = errors.New("bid must be >= 0")
	ErrInsufficientPoints = errors.New("bid exceeds user's points")
	ErrAuctionClosed      = errors.New("auction is not open")
	ErrWrongPhase         = errors.New("not in bid phase")
	ErrNoActiveUser       = errors.New("no active user")
	ErrAlreadyBid         = errors.New("user has already bid in this auction")
	ErrNotAllowed         = errors.New("user not allowed to bid in this auction")
	ErrNotFound           = errors.New("auction not found")
	ErrConflict           = errors.New("auction already exists")
	ErrDuplicateName      = errors.New("duplicate name in turn order")
	ErrInvalidDuration    = errors.New("duration out of range")
)
