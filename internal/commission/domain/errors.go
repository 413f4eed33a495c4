package domain

import "errors"

var (
	// ErrNoCommissions is returned when no eligible group has orders in
	// the requested period.
	ErrNoCommissions = errors.New("no commissions for period")

	// ErrNumberConflict signals a lost race on first-time sequential
	// number allocation. The caller may retry; the stored number wins.
	ErrNumberConflict = errors.New("sequential number already allocated")
)
