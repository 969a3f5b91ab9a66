package weather

import (
	"context"
	"errors"

	"promptline/core"
)

var (
	// ErrEmptyCity is returned when a lookup has no city name.
	ErrEmptyCity = errors.New("city name required")

	// ErrServiceRequired is returned when functions are registered without a
	// weather service.
	ErrServiceRequired = errors.New("weather service required")

	// ErrRegistryRequired is returned when functions are registered without a
	// capability registry.
	ErrRegistryRequired = errors.New("capability registry required")

	// ErrDispatcherRequired is returned when functions are registered without
	// a dispatcher for the fan-out capability.
	ErrDispatcherRequired = errors.New("dispatcher required")
)

// Service resolves current weather conditions from a provider.
// Implementations must be thread-safe; the fan-out capability queries one
// service instance from multiple workers at once.
type Service interface {
	// ByCity returns the current conditions for the named city.
	ByCity(ctx context.Context, city string) (core.Weather, error)
}
