package bnk

import "errors"

// ErrNotFound is returned when a bank parsed correctly but lacks the queried
// content.
var ErrNotFound = errors.New("not found")

// Bank is a decoded sound bank.
type Bank struct {
	// Chunks are in file order.
	Chunks []Chunk
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}

	return append([]T(nil), s...)
}
