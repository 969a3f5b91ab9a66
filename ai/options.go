package ai

// GenerateOptions holds per-call parameters for ChatModel.Generate.
type GenerateOptions struct {
	// SystemPrompt is prepended as a system message when non-empty.
	SystemPrompt string

	// JSONOutput asks the model for a JSON-only reply (provider JSON mode).
	JSONOutput bool

	// ImageURL attaches an image to the prompt for multimodal requests.
	ImageURL string

	// Tools lists the capabilities the model may invoke for this call.
	Tools []ToolDefinition

	// Runner executes tool calls requested by the model.
	// Required when Tools is non-empty.
	Runner ToolRunner
}

// GenerateOption configures a single Generate call.
type GenerateOption func(*GenerateOptions)

// WithSystemPrompt sets a system message for the call.
func WithSystemPrompt(prompt string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompt = prompt
	}
}

// WithJSONOutput asks the model to reply with JSON only.
func WithJSONOutput() GenerateOption {
	return func(o *GenerateOptions) {
		o.JSONOutput = true
	}
}

// WithImageURL attaches an image to the prompt.
func WithImageURL(url string) GenerateOption {
	return func(o *GenerateOptions) {
		o.ImageURL = url
	}
}

// WithTools makes the listed capabilities available to the model and routes
// requested calls through the runner.
func WithTools(runner ToolRunner, tools ...ToolDefinition) GenerateOption {
	return func(o *GenerateOptions) {
		o.Tools = tools
		o.Runner = runner
	}
}

// ApplyGenerateOptions folds a list of options into a GenerateOptions value.
// Intended for ChatModel implementations.
func ApplyGenerateOptions(opts ...GenerateOption) GenerateOptions {
	var options GenerateOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
