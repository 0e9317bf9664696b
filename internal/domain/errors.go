package domain

import "errors"

var (
	ErrRepository      = errors.New("repository error")
	ErrNotification    = errors.New("notification error")
	ErrEvaluation      = errors.New("evaluation error")
	ErrNoBids          = errors.New("auction has no bids")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrSweepNotFound   = errors.New("sweep run not found")
	ErrPaymentExists   = errors.New("payment already exists for auction")
)
