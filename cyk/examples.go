package cyk

import (
	"fmt"
	"os"
	"strings"
)

// LoadExamples reads a file of example sentences, one per line.
func LoadExamples(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read examples: %w", err)
	}
	return ParseExamples(string(data)), nil
}

// ParseExamples splits text into sentences. Blank lines and lines starting
// with # are skipped.
func ParseExamples(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line)
	}
	return sentences
}
