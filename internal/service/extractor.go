package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"poli-assistant/internal/model"
	"poli-assistant/internal/utils"

	"go.uber.org/zap"
)

var (
	roomNumberRe     = regexp.MustCompile(`\b(\d{3,4}[a-zA-Z]?)\b`)
	buildingNumberRe = regexp.MustCompile(`(?i)(?:building|bld|корпус)\s*(\d+)`)
	digitsRe         = regexp.MustCompile(`\d+`)
)

// extractionParams keep the model short and close to deterministic
var extractionParams = model.GenerationParams{MaxTokens: 60, Temperature: 0.1}

// ExtractLexical finds the first room-like token (3-4 digits, optional letter) and the
// first "building N" mention in text.
func ExtractLexical(text string) model.ExtractionResult {
	var result model.ExtractionResult
	if m := roomNumberRe.FindStringSubmatch(text); len(m) > 1 {
		result.Room = m[1]
	}
	if m := buildingNumberRe.FindStringSubmatch(text); len(m) > 1 {
		result.Building = m[1]
	}
	return result
}

// firstDigits returns the first run of digits in text, or ""
func firstDigits(text string) string {
	return digitsRe.FindString(text)
}

// ReconcileExtraction keeps a generative slot value only when it occurs verbatim in the
// utterance; otherwise the lexical value for that slot is used, even if empty.
func ReconcileExtraction(utterance string, lexical, generative model.ExtractionResult) model.ExtractionResult {
	return model.ExtractionResult{
		Room:     verifiedSlot("room", utterance, generative.Room, lexical.Room),
		Building: verifiedSlot("building", utterance, generative.Building, lexical.Building),
	}
}

func verifiedSlot(slot, utterance, generative, lexical string) string {
	if generative != "" && strings.Contains(utterance, generative) {
		return generative
	}
	if generative != "" {
		hallucinationsRejected.WithLabelValues(slot).Inc()
	}
	return lexical
}

// GenerativeExtractor asks the generation model for the room and building slots.
// Its output is untrusted and must go through ReconcileExtraction.
type GenerativeExtractor struct {
	queue  *GenerationQueue
	logger *zap.Logger
}

// NewGenerativeExtractor creates a new generative extractor
func NewGenerativeExtractor(queue *GenerationQueue, logger *zap.Logger) *GenerativeExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerativeExtractor{queue: queue, logger: logger}
}

// Extract returns the slots the model proposes. Failures of any kind yield an empty result.
func (e *GenerativeExtractor) Extract(ctx context.Context, utterance, history string) model.ExtractionResult {
	if e == nil || e.queue == nil {
		return model.ExtractionResult{}
	}

	text, err := e.queue.Generate(ctx, "extract", model.Prompt{
		System:  ExtractionSystemPrompt,
		User:    utterance,
		History: history,
	}, extractionParams)
	if err != nil {
		return model.ExtractionResult{}
	}

	var raw map[string]interface{}
	if err := utils.ParseModelJSON(text, &raw); err != nil {
		e.logger.Debug("Extraction output is not JSON", zap.String("output", text), zap.Error(err))
		return model.ExtractionResult{}
	}

	return model.ExtractionResult{
		Room:     slotString(raw["room"]),
		Building: slotString(raw["building"]),
	}
}

// slotString renders a JSON slot value the way it would appear in text
func slotString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// SlotExtractor combines lexical and generative extraction behind the hallucination guard
type SlotExtractor struct {
	generative *GenerativeExtractor
}

// NewSlotExtractor creates a new slot extractor; generative may be nil for lexical-only use
func NewSlotExtractor(generative *GenerativeExtractor) *SlotExtractor {
	return &SlotExtractor{generative: generative}
}

// Extract runs both extractors on utterance and reconciles them
func (s *SlotExtractor) Extract(ctx context.Context, utterance, history string) model.ExtractionResult {
	lexical := ExtractLexical(utterance)
	generative := s.generative.Extract(ctx, utterance, history)
	return ReconcileExtraction(utterance, lexical, generative)
}
