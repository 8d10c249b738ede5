package service

import (
	"strings"
)

// OutputCleaner strips provider-specific wrapping from generated text
type OutputCleaner interface {
	Clean(content string) string
}

// OpenAIOutputCleaner handles the official OpenAI API, which returns bare content
type OpenAIOutputCleaner struct{}

// Clean trims surrounding whitespace
func (p *OpenAIOutputCleaner) Clean(content string) string {
	return strings.TrimSpace(content)
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// newOutputCleaner picks the cleaner matching the configured endpoint.
// Unknown endpoints are assumed to be self-hosted chat-template servers.
func newOutputCleaner(baseURL string) (OutputCleaner, string) {
	switch {
	case IsNVIDIAProvider(baseURL):
		return &NVIDIAOutputCleaner{}, "nvidia"
	case IsOpenAIProvider(baseURL):
		return &OpenAIOutputCleaner{}, "openai"
	default:
		return &ChatTemplateOutputCleaner{}, "local"
	}
}
