package domain

import "errors"

var (
	// ErrInvalidArgument is returned when a caller violates the engine's
	// contract (empty item name, non-positive quantity, blank retailer ID)
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRetailerAPIFailure is returned when a retailer API request fails
	ErrRetailerAPIFailure = errors.New("retailer API request failed")

	// ErrRetailerNotFound is returned when the retailer is unknown upstream
	ErrRetailerNotFound = errors.New("retailer not found")
)
