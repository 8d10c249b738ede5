package service

import (
	"regexp"
	"strings"
)

var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// NVIDIAOutputCleaner handles NVIDIA-hosted reasoning models (DeepSeek and friends),
// which may inline their reasoning in <think> blocks ahead of the answer.
type NVIDIAOutputCleaner struct{}

// Clean removes reasoning blocks, including an unterminated trailing one
func (p *NVIDIAOutputCleaner) Clean(content string) string {
	content = thinkBlockRe.ReplaceAllString(content, "")
	if idx := strings.Index(content, "<think>"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

// IsNVIDIAProvider checks if the base URL is NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}
