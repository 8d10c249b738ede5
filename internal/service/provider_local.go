package service

import (
	"strings"
)

const (
	assistantMarker = "<|assistant|>"
	endMarker       = "<|end|>"
)

var chatTemplateTokens = []string{"<|endoftext|>", "<|user|>", "<|system|>", "<s>", "</s>", "<pad>"}

// ChatTemplateOutputCleaner handles self-hosted servers (llama.cpp, vLLM, TGI) running
// Phi-3 style chat templates, which sometimes echo the template around the answer.
type ChatTemplateOutputCleaner struct{}

// Clean keeps the text after the last assistant marker and before the first end marker
func (p *ChatTemplateOutputCleaner) Clean(content string) string {
	if idx := strings.LastIndex(content, assistantMarker); idx >= 0 {
		content = content[idx+len(assistantMarker):]
	}
	if idx := strings.Index(content, endMarker); idx >= 0 {
		content = content[:idx]
	}
	for _, tok := range chatTemplateTokens {
		content = strings.ReplaceAll(content, tok, "")
	}
	return strings.TrimSpace(content)
}
