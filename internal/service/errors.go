package service

import "errors"

// ErrCodeExhausted means every generated code collided within the attempt
// budget. Practically unreachable with a 36^6 space, but the loop is bounded
// so a store outage cannot spin forever.
var ErrCodeExhausted = errors.New("could not allocate a unique room code")
