package weather

import (
	"context"
	"encoding/json"
	"fmt"

	"promptline/core"
	"promptline/dispatch"
)

// Capability names the LLM can request as tool calls.
const (
	CapabilityByCity   = "getWeatherByCity"
	CapabilityByCities = "getWeatherByCities"
)

type cityRequest struct {
	City string `json:"city"`
}

type citiesRequest struct {
	Cities []string `json:"cities"`
}

// RegisterFunctions registers the weather capabilities on the registry:
// a single-city lookup backed directly by service, and a multi-city lookup
// that fans the single-city capability out over the dispatcher, one worker
// task per city, joined into a map keyed by city name.
func RegisterFunctions(registry *dispatch.Registry, dispatcher *dispatch.Dispatcher, service Service) error {
	if registry == nil {
		return ErrRegistryRequired
	}
	if dispatcher == nil {
		return ErrDispatcherRequired
	}
	if service == nil {
		return ErrServiceRequired
	}

	byCity := dispatch.Capability{
		Name:        CapabilityByCity,
		Description: "Get the current weather in a given city, including temperature (in Celsius). " +
			"Call this function if you need to get the weather in a single city.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "The city to get the weather for",
				},
			},
			"required": []string{"city"},
		},
		Handler: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var req cityRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, fmt.Errorf("parsing city request: %w", err)
			}
			if req.City == "" {
				return nil, ErrEmptyCity
			}
			return service.ByCity(ctx, req.City)
		},
	}
	if err := registry.Register(byCity); err != nil {
		return err
	}

	byCities := dispatch.Capability{
		Name:        CapabilityByCities,
		Description: "Get the current weather in different cities, all at once. " +
			"The result is a map of weather details (including temperature in Celsius) by city. " +
			"Call this function to optimize calls when you need to get the weather in different cities.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cities": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "The list of cities to get the weather for",
				},
			},
			"required": []string{"cities"},
		},
		Handler: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var req citiesRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, fmt.Errorf("parsing cities request: %w", err)
			}
			return lookupCities(ctx, dispatcher, req.Cities)
		},
	}
	return registry.Register(byCities)
}

// lookupCities fans the single-city capability out over the dispatcher and
// narrows the joined results back to weather values keyed by city.
func lookupCities(ctx context.Context, dispatcher *dispatch.Dispatcher, cities []string) (map[string]core.Weather, error) {
	if len(cities) == 0 {
		return nil, ErrEmptyCity
	}

	payloads := make(map[string]json.RawMessage, len(cities))
	for _, city := range cities {
		if city == "" {
			return nil, ErrEmptyCity
		}
		payload, err := json.Marshal(cityRequest{City: city})
		if err != nil {
			return nil, fmt.Errorf("encoding request for %q: %w", city, err)
		}
		payloads[city] = payload
	}

	results, err := dispatcher.InvokeAll(ctx, CapabilityByCity, payloads)
	if err != nil {
		return nil, err
	}

	conditions := make(map[string]core.Weather, len(results))
	for city, result := range results {
		weather, ok := result.(core.Weather)
		if !ok {
			return nil, fmt.Errorf("unexpected result type %T for %q", result, city)
		}
		conditions[city] = weather
	}
	return conditions, nil
}
