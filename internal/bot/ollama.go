package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Ollama is a Strategy backed by a local Ollama instance. Any failure -
// unreachable service, timeout, unparseable reply - surfaces as an error so
// the caller can fall back to Random.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewOllama creates an Ollama-backed strategy
func NewOllama(baseURL, model string, timeout time.Duration, logger *slog.Logger) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// generate runs one non-streaming completion
func (o *Ollama) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.9,
			"num_predict": 100,
		},
	})
	if err != nil {
		return "", fmt.Errorf("bot: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("bot: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("bot: ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bot: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bot: ollama status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("bot: decode response: %w", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}

// Healthy checks whether the Ollama API is reachable
func (o *Ollama) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ChooseTiles asks the model for a tile selection in a structured format and
// matches the reply back against the hand, case-insensitively.
func (o *Ollama) ChooseTiles(ctx context.Context, prompt string, hand []string) ([]string, error) {
	if len(hand) == 0 {
		return nil, ErrNoChoice
	}

	quoted := make([]string, len(hand))
	for i, t := range hand {
		quoted[i] = fmt.Sprintf("%q", t)
	}

	llmPrompt := fmt.Sprintf(`You are playing a party game where you must create funny or clever answers using word tiles cut from magazines.

PROMPT: %q

YOUR AVAILABLE TILES: [%s]

RULES:
- Pick 1-5 tiles from your available tiles to form your answer
- Arrange them in an order that makes a funny, clever, or absurd response to the prompt
- You MUST only use tiles from your available tiles list (exact spelling)
- Humor, creativity, and unexpected answers win!

Respond in this exact format:
TILES: word1, word2, word3`, prompt, strings.Join(quoted, ", "))

	reply, err := o.generate(ctx, llmPrompt)
	if err != nil {
		return nil, err
	}

	tiles := parseTileList(reply, hand)
	if len(tiles) == 0 {
		return nil, fmt.Errorf("bot: no usable tiles in reply %q", reply)
	}
	return tiles, nil
}

// parseTileList pulls the TILES: line out of a model reply and maps each
// entry back onto the hand. Unknown entries and repeats are dropped.
func parseTileList(reply string, hand []string) []string {
	line := ""
	for _, l := range strings.Split(reply, "\n") {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(strings.ToUpper(l), "TILES:") {
			line = strings.TrimSpace(l[len("TILES:"):])
			break
		}
	}
	if line == "" {
		// Some models skip the prefix; try the first line as a bare list.
		line = strings.TrimSpace(strings.Split(reply, "\n")[0])
	}

	byLower := make(map[string]string, len(hand))
	for _, t := range hand {
		byLower[strings.ToLower(t)] = t
	}

	var tiles []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(line, ",") {
		part = strings.ToLower(strings.Trim(strings.TrimSpace(part), `"'`))
		tile, ok := byLower[part]
		if !ok || seen[tile] {
			continue
		}
		tiles = append(tiles, tile)
		seen[tile] = true
		if len(tiles) >= MaxTilesPerAnswer {
			break
		}
	}
	return tiles
}

// ChooseWinner presents the candidates as a numbered list and asks the model
// for the number of its pick.
func (o *Ollama) ChooseWinner(ctx context.Context, prompt string, candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoChoice
	}

	var list strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&list, "%d. %q\n", i+1, strings.Join(c.Tiles, " "))
	}

	llmPrompt := fmt.Sprintf(`You are judging a party game where players create funny answers using word tiles.

PROMPT: %q

SUBMISSIONS:
%s
Pick the funniest, most clever, or most creative answer. Consider:
- Humor and wit
- Unexpected or absurd combinations
- How well it answers the prompt (even if silly)

Respond with ONLY the number of your choice (1, 2, 3, etc.). Nothing else.`, prompt, list.String())

	reply, err := o.generate(ctx, llmPrompt)
	if err != nil {
		return "", err
	}

	for _, r := range reply {
		if r >= '1' && r <= '9' {
			choice := int(r - '0')
			if choice <= len(candidates) {
				return candidates[choice-1].PlayerID, nil
			}
			break
		}
	}
	return "", fmt.Errorf("bot: no valid choice in reply %q", reply)
}
