package domain

import "errors"

var (
	ErrInvalidPrice   = errors.New("invalid price")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrDuplicatePrice = errors.New("price already exists on this side")
	ErrNoBestBid      = errors.New("best bid not found")
	ErrNoBestAsk      = errors.New("best ask not found")
	ErrBookNotFound   = errors.New("order book not found")
	ErrNotFound       = errors.New("not found")
)
