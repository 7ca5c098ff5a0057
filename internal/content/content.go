// Package content loads the prompt and word-tile vocabulary a game is
// started with. The default set ships embedded in the binary; deployments
// can point CONTENT_PATH at their own YAML file.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ransomnotes/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

type file struct {
	Prompts []string `yaml:"prompts"`
	Words   []string `yaml:"words"`
}

// Default returns the embedded content set
func Default() *domain.Content {
	c, err := parse(defaultYAML)
	if err != nil {
		// The embedded file is validated by tests; reaching this is a build defect.
		panic(fmt.Sprintf("content: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a content file from disk, or returns the embedded default when
// path is empty.
func Load(path string) (*domain.Content, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*domain.Content, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Prompts) == 0 {
		return nil, fmt.Errorf("no prompts defined")
	}
	if len(f.Words) == 0 {
		return nil, fmt.Errorf("no words defined")
	}
	return &domain.Content{Prompts: f.Prompts, Words: f.Words}, nil
}
