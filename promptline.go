// Copyright 2025 Promptline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package promptline

import (
	"log/slog"
	"time"

	"promptline/ai"
	"promptline/ai/openai"
	"promptline/dispatch"
	"promptline/executor"
	"promptline/gateway"
	"promptline/movies"
	"promptline/vectorstore"
	vectorbadger "promptline/vectorstore/badger"
	"promptline/weather"
)

// DefaultRateBudget allows a burst of 5 provider calls, refilled greedily at
// 5 tokens per 1.5 seconds.
var DefaultRateBudget = gateway.RateBudget{
	Capacity:   5,
	RefillRate: 5,
	Interval:   1500 * time.Millisecond,
}

// App wires the gateway stack: storage backend, vector store, worker pool,
// capability dispatcher, rate-limited AI provider and the features built on
// top of them.
type App struct {
	backend    *vectorbadger.Backend
	store      vectorstore.Store
	pool       *executor.Pool
	registry   *dispatch.Registry
	dispatcher *dispatch.Dispatcher
	limiter    *gateway.Limiter
	provider   ai.Provider
	client     *gateway.Client
	logger     *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
	budget   gateway.RateBudget
	poolSize int
	weather  weather.Service
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithRateBudget sets the outbound provider call budget.
// Default is DefaultRateBudget.
func WithRateBudget(budget gateway.RateBudget) AppOption {
	return func(o *appOptions) {
		o.budget = budget
	}
}

// WithPoolSize sets the worker pool size.
// Default derives from the machine's CPU count.
func WithPoolSize(size int) AppOption {
	return func(o *appOptions) {
		o.poolSize = size
	}
}

// WithWeatherService registers the weather capabilities backed by service.
// Without it the app runs with no weather tools.
func WithWeatherService(service weather.Service) AppOption {
	return func(o *appOptions) {
		o.weather = service
	}
}

// New creates an App persisting its vector store at filePath.
func New(filePath string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
		budget:   DefaultRateBudget,
	}
	for _, opt := range opts {
		opt(options)
	}

	limiter, err := gateway.NewLimiter(options.budget)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig, openai.WithGate(limiter))
	if err != nil {
		return nil, err
	}

	backend, err := vectorbadger.OpenBackend(filePath, false)
	if err != nil {
		provider.Close()
		return nil, err
	}

	store, err := vectorbadger.New(backend, provider.Embedder())
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	pool, err := executor.NewPool(options.poolSize)
	if err != nil {
		store.Close()
		backend.Close()
		provider.Close()
		return nil, err
	}

	registry := dispatch.NewRegistry()
	dispatcher, err := dispatch.NewDispatcher(registry, pool)
	if err != nil {
		pool.Release()
		store.Close()
		backend.Close()
		provider.Close()
		return nil, err
	}

	client, err := gateway.NewClient(provider.ChatModel())
	if err != nil {
		pool.Release()
		store.Close()
		backend.Close()
		provider.Close()
		return nil, err
	}

	app := &App{
		backend:    backend,
		store:      store,
		pool:       pool,
		registry:   registry,
		dispatcher: dispatcher,
		limiter:    limiter,
		provider:   provider,
		client:     client,
		logger:     slog.Default(),
	}

	if options.weather != nil {
		if err := weather.RegisterFunctions(registry, dispatcher, options.weather); err != nil {
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

// Close releases the app's resources. The worker pool is released first so no
// in-flight task outlives the stores it may write to; tasks already running
// are left to finish.
func (a *App) Close() error {
	a.pool.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the vector store.
func (a *App) Store() vectorstore.Store {
	return a.store
}

// Client returns the gateway client.
func (a *App) Client() *gateway.Client {
	return a.client
}

// Registry returns the capability registry.
func (a *App) Registry() *dispatch.Registry {
	return a.registry
}

// Dispatcher returns the capability dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Limiter returns the outbound rate limiter.
func (a *App) Limiter() *gateway.Limiter {
	return a.limiter
}

// Pool returns the worker pool.
func (a *App) Pool() *executor.Pool {
	return a.pool
}

// NewLoader creates a movie loader indexing into the app's vector store.
func (a *App) NewLoader(opts ...movies.LoaderOption) (*movies.Loader, error) {
	storeProc, err := movies.NewStoreProcessor(a.store)
	if err != nil {
		return nil, err
	}
	return movies.NewLoader(a.pool, []movies.Processor{storeProc}, opts...)
}

// NewMashup creates a mashup generator over the app's store and client.
func (a *App) NewMashup(opts ...movies.MashupOption) (*movies.Mashup, error) {
	return movies.NewMashup(a.store, a.client, opts...)
}

// ToolDefinitions renders the registered capabilities as tool definitions for
// a chat call.
func (a *App) ToolDefinitions() []ai.ToolDefinition {
	caps := a.registry.List()
	tools := make([]ai.ToolDefinition, 0, len(caps))
	for _, c := range caps {
		tools = append(tools, ai.ToolDefinition{
			Name:        c.Name,
			Description: c.Description,
			Parameters:  c.Parameters,
		})
	}
	return tools
}
