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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"promptline"
	"promptline/ai"
	"promptline/core"
	"promptline/weather"
	"promptline/weather/openweather"
)

func main() {
	app := &cli.App{
		Name:  "promptline",
		Usage: "LLM gateway with rate limiting, tool dispatch and a movie vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a tab-separated movie dataset into the vector store",
				Action: ingestCommand,
				Flags: append(appFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the tab-separated movie dataset",
						Required: true,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Query the vector store by similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(appFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of matches to return",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for a match",
						Value: 0.0,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Send a prompt to the model, optionally with weather tools",
				ArgsUsage: "<prompt>",
				Action:    askCommand,
				Flags: append(appFlags(),
					&cli.StringFlag{
						Name:  "system",
						Usage: "System prompt",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Image URL to attach for multimodal prompts",
					},
					&cli.StringFlag{
						Name:    "openweather-key",
						Usage:   "OpenWeatherMap API key; enables the weather tools",
						EnvVars: []string{"OPENWEATHER_API_KEY"},
					},
				),
			},
			{
				Name:      "mashup",
				Usage:     "Invent a new movie blending stored movies",
				ArgsUsage: "<title> [<title>...]",
				Action:    mashupCommand,
				Flags: append(appFlags(),
					&cli.StringFlag{
						Name:  "language",
						Usage: "BCP 47 tag for the plot language",
						Value: "en",
					},
				),
			},
			{
				Name:      "weather",
				Usage:     "Look up current weather for one or more cities (exercises fan-out)",
				ArgsUsage: "<city> [<city>...]",
				Action:    weatherCommand,
				Flags: append(appFlags(),
					&cli.StringFlag{
						Name:     "openweather-key",
						Usage:    "OpenWeatherMap API key",
						EnvVars:  []string{"OPENWEATHER_API_KEY"},
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// appFlags are the flags every command wiring a full App needs.
func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the BadgerDB vector store directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI service",
			Value:   "none",
			EnvVars: []string{"PROMPTLINE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func buildApp(c *cli.Context, opts ...promptline.AppOption) (*promptline.App, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append(opts, promptline.WithAIConfig(aiConfig))
	app, err := promptline.New(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open application: %w", err)
	}
	return app, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	file, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	loader, err := app.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}

	accepted, err := loader.Load(ctx, file)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Accepted %d records for indexing\n", accepted)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	matches, err := app.Store().Query(ctx, query, c.Int("top-k"), float32(c.Float64("min-similarity")))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Fprintln(os.Stderr, "No matches")
		return nil
	}
	for _, match := range matches {
		title, _ := match.Document.Metadata["title"].(string)
		fmt.Printf("%.3f  %s  %s\n", match.Score, match.Document.ID, title)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		return fmt.Errorf("prompt is required")
	}

	var appOpts []promptline.AppOption
	if key := c.String("openweather-key"); key != "" {
		service, err := openweather.NewClient(key)
		if err != nil {
			return fmt.Errorf("failed to create weather service: %w", err)
		}
		appOpts = append(appOpts, promptline.WithWeatherService(service))
	}

	app, err := buildApp(c, appOpts...)
	if err != nil {
		return err
	}
	defer app.Close()

	var genOpts []ai.GenerateOption
	if system := c.String("system"); system != "" {
		genOpts = append(genOpts, ai.WithSystemPrompt(system))
	}
	if image := c.String("image"); image != "" {
		genOpts = append(genOpts, ai.WithImageURL(image))
	}
	if tools := app.ToolDefinitions(); len(tools) > 0 {
		genOpts = append(genOpts, ai.WithTools(app.Dispatcher(), tools...))
	}

	reply, err := app.Client().Ask(ctx, prompt, genOpts...)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Println(reply)
	return nil
}

func mashupCommand(c *cli.Context) error {
	ctx := context.Background()

	titles := c.Args().Slice()
	if len(titles) < 2 {
		return fmt.Errorf("at least two titles are required")
	}

	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	mashup, err := app.NewMashup()
	if err != nil {
		return fmt.Errorf("failed to create mashup: %w", err)
	}

	result, err := mashup.Invent(ctx, titles, c.String("language"))
	if err != nil {
		return fmt.Errorf("mashup failed: %w", err)
	}

	fmt.Printf("%s\n\n%s\n", result.Title, result.Plot)
	return nil
}

func weatherCommand(c *cli.Context) error {
	ctx := context.Background()

	cities := c.Args().Slice()
	if len(cities) == 0 {
		return fmt.Errorf("at least one city is required")
	}

	service, err := openweather.NewClient(c.String("openweather-key"))
	if err != nil {
		return fmt.Errorf("failed to create weather service: %w", err)
	}

	app, err := buildApp(c, promptline.WithWeatherService(service))
	if err != nil {
		return err
	}
	defer app.Close()

	request, err := json.Marshal(map[string][]string{"cities": cities})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	out, err := app.Dispatcher().Invoke(ctx, weather.CapabilityByCities, request)
	if err != nil {
		return fmt.Errorf("weather lookup failed: %w", err)
	}

	conditions, ok := out.(map[string]core.Weather)
	if !ok {
		return fmt.Errorf("unexpected result type %T", out)
	}
	for _, city := range cities {
		fmt.Printf("%s: %.1f°C\n", city, conditions[city].Temperature)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
