package store

import (
	"errors"
	"time"
)

var ErrInvalidSaleWindow = errors.New("sale window start must be before end")

// SaleWindow is the half-open interval [start, end) during which the
// discount boost applies.
type SaleWindow struct {
	start time.Time
	end   time.Time
}

func NewSaleWindow(start, end time.Time) (SaleWindow, error) {
	if !start.Before(end) {
		return SaleWindow{}, ErrInvalidSaleWindow
	}
	return SaleWindow{start: start, end: end}, nil
}

func (w SaleWindow) Start() time.Time { return w.start }
func (w SaleWindow) End() time.Time   { return w.end }

func (w SaleWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}
