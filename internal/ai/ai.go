// Package ai integrates provider CLIs (claude, gemini, codex,
// opencode) for recommendation-based discovery. The provider runs as a
// one-shot subprocess; its free-text answer is expected to contain one
// JSON object.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"toolshed/internal/runner"
)

// Provider names a supported AI CLI.
type Provider string

const (
	ProviderNone     Provider = "none"
	ProviderClaude   Provider = "claude"
	ProviderGemini   Provider = "gemini"
	ProviderCodex    Provider = "codex"
	ProviderOpencode Provider = "opencode"
)

// ParseProvider maps a config value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderNone, "":
		return ProviderNone, nil
	case ProviderClaude:
		return ProviderClaude, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderCodex:
		return ProviderCodex, nil
	case ProviderOpencode:
		return ProviderOpencode, nil
	default:
		return ProviderNone, fmt.Errorf("unknown AI provider %q", s)
	}
}

// args builds the non-interactive invocation for the provider.
func (p Provider) args(prompt string) (string, []string) {
	switch p {
	case ProviderClaude:
		return "claude", []string{"-p", prompt}
	case ProviderGemini:
		return "gemini", []string{prompt}
	case ProviderCodex:
		return "codex", []string{"-q", prompt}
	case ProviderOpencode:
		return "opencode", []string{"run", prompt}
	default:
		return "", nil
	}
}

// Invoke runs the provider CLI with the prompt and returns its raw
// stdout.
func Invoke(ctx context.Context, run runner.Runner, p Provider, prompt string) (string, error) {
	if p == ProviderNone {
		return "", fmt.Errorf("no AI provider configured")
	}
	name, args := p.args(prompt)
	out, err := run.Run(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", name, err)
	}
	if out.ExitCode != 0 {
		return "", fmt.Errorf("%s exited %d: %s", name, out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return out.Stdout, nil
}

// ExtractJSONObject pulls the outermost JSON object out of a response
// that may be wrapped in prose or markdown fences.
func ExtractJSONObject(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return response[start : end+1], nil
}

// Recommendation is one tool the provider suggested.
type Recommendation struct {
	Name        string `json:"name"`
	Binary      string `json:"binary"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Reason      string `json:"reason"`
	Source      string `json:"source"`
	InstallCmd  string `json:"install_cmd"`
	GitHub      string `json:"github"`
}

// DiscoveryResponse is the parsed answer to a discovery prompt.
type DiscoveryResponse struct {
	Summary string           `json:"summary"`
	Tools   []Recommendation `json:"tools"`
}

// ParseDiscoveryResponse decodes the provider's discovery answer.
func ParseDiscoveryResponse(response string) (DiscoveryResponse, error) {
	raw, err := ExtractJSONObject(response)
	if err != nil {
		return DiscoveryResponse{}, err
	}
	var parsed DiscoveryResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return DiscoveryResponse{}, fmt.Errorf("parse discovery response: %w", err)
	}
	return parsed, nil
}

const discoveryPromptTemplate = `You are a CLI tool expert. Based on the user's description of what they're working on, recommend relevant command-line tools.

User's context: %s

Already installed tools: %s

IMPORTANT - Only recommend tools from these package sources: %s
Do NOT recommend tools that cannot be installed from the enabled sources above.

Guidelines:
1. Recommend 5-10 highly relevant tools
2. Categorize as "essential" (must-have) or "recommended" (nice-to-have)
3. Don't recommend tools they already have installed
4. Focus on well-maintained, popular tools
5. Include the exact install command for each
6. Be specific about why each tool is relevant
7. ONLY use sources from the enabled list above

Respond with JSON:
{
  "summary": "Brief description of the recommendations",
  "tools": [
    {
      "name": "tool-name",
      "binary": "binary-name",
      "description": "What it does (1 sentence)",
      "category": "essential|recommended",
      "reason": "Why it's relevant to their query",
      "source": "cargo|pip|npm|apt|brew",
      "install_cmd": "cargo install tool-name",
      "github": "owner/repo"
    }
  ]
}
`

// DiscoveryPrompt renders the discovery prompt for a query.
func DiscoveryPrompt(query string, installed, enabledSources []string) string {
	installedList := "none"
	if len(installed) > 0 {
		installedList = strings.Join(installed, ", ")
	}
	return fmt.Sprintf(discoveryPromptTemplate, query, installedList, strings.Join(enabledSources, ", "))
}
