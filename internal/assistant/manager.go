// Package assistant is the model-execution collaborator: a registry of
// model configurations and a stateless generator that fabricates
// responses for them. No request ever leaves the process; the point of
// this package is a stable input/output contract for the ledger, not
// real inference.
package assistant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ai-assistant-api/internal/model"
)

// Output modes accepted by Generate.
const (
	ModeBrief    = "brief"
	ModeDetailed = "detailed"
)

// briefLimit caps how much of the prompt the brief mode echoes back.
const briefLimit = 100

// ErrUnknownModel is returned when the requested model is not in the
// registry.
var ErrUnknownModel = errors.New("unknown model")

// ModelConfig describes one entry of the model registry.
type ModelConfig struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	MaxTokens   int    `json:"max_tokens"`
}

// Result is the structured outcome of one completed generation. The
// calling layer copies it verbatim into a history entry.
type Result struct {
	Model      string    `json:"model"`
	ModelName  string    `json:"model_name"`
	ResponseID string    `json:"response_id"`
	CreatedAt  time.Time `json:"created_at"`
	InputType  string    `json:"input_type"`
	OutputMode string    `json:"output_mode"`
	Content    string    `json:"content"`
}

// Manager holds the model registry.
type Manager struct {
	models map[string]ModelConfig
	order  []string
}

// NewManager builds the default registry. The local demo model always
// works; the named provider entries exist so the catalog matches what
// the UI offers, but all of them resolve to the same simulation.
func NewManager() *Manager {
	m := &Manager{models: map[string]ModelConfig{}}
	for _, cfg := range []ModelConfig{
		{Name: "demo-local", Provider: "local", DisplayName: "Local Demo", Description: "Local demo model - no API key needed", MaxTokens: 1000},
		{Name: "gpt-4", Provider: "openai", DisplayName: "GPT-4", Description: "OpenAI's most advanced model", MaxTokens: 4096},
		{Name: "gpt-3.5-turbo", Provider: "openai", DisplayName: "GPT-3.5 Turbo", Description: "Fast general-purpose model", MaxTokens: 4096},
		{Name: "claude-3-haiku", Provider: "anthropic", DisplayName: "Claude 3 Haiku", Description: "Anthropic's fastest model", MaxTokens: 4096},
		{Name: "claude-3-sonnet", Provider: "anthropic", DisplayName: "Claude 3 Sonnet", Description: "Anthropic's balanced model", MaxTokens: 4096},
		{Name: "gemini-pro", Provider: "google", DisplayName: "Gemini Pro", Description: "Google's multimodal model", MaxTokens: 2048},
	} {
		m.models[cfg.Name] = cfg
		m.order = append(m.order, cfg.Name)
	}
	return m
}

// Models returns the registry entries in their catalog order.
func (m *Manager) Models() []ModelConfig {
	out := make([]ModelConfig, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.models[name])
	}
	return out
}

// Generate produces a fabricated response for the given model and
// input. Each call mints a fresh version-4 UUID response identifier;
// that identifier is what feedback later refers to.
func (m *Manager) Generate(modelName string, input model.InputPayload, outputMode string) (Result, error) {
	cfg, ok := m.models[modelName]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelName)
	}
	if outputMode != ModeBrief {
		outputMode = ModeDetailed
	}

	inputType := "text"
	if len(input.Attachments) > 0 {
		inputType = "multimodal"
	}

	res := Result{
		Model:      cfg.Name,
		ModelName:  cfg.DisplayName,
		ResponseID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		InputType:  inputType,
		OutputMode: outputMode,
	}

	if outputMode == ModeBrief {
		prompt := input.Text
		if len(prompt) > briefLimit {
			prompt = prompt[:briefLimit] + "..."
		}
		res.Content = fmt.Sprintf("**%s Brief Response:**\n\n%s", cfg.DisplayName, prompt)
		return res, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s Detailed Analysis\n\n", cfg.DisplayName)
	fmt.Fprintf(&b, "**Input Analysis:**\n- Text: %s\n- Attachments: %d\n\n", input.Text, len(input.Attachments))
	b.WriteString("**Comprehensive Response:**\n")
	b.WriteString("This is a detailed analysis of your input. The model has processed the information and provided insights based on the context and requirements.\n\n")
	fmt.Fprintf(&b, "**Technical Details:**\n- Model: %s (%s)\n- Max tokens: %d\n", cfg.Name, cfg.Provider, cfg.MaxTokens)
	res.Content = b.String()
	return res, nil
}
