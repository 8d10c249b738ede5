package model

// ExtractionResult holds the room and building slots recovered from one utterance.
// Empty strings mean the slot was not found.
type ExtractionResult struct {
	Room     string `json:"room"`
	Building string `json:"building"`
}

// HasRoom reports whether a room number was extracted
func (e ExtractionResult) HasRoom() bool {
	return e.Room != ""
}

// HasBuilding reports whether a building number was extracted
func (e ExtractionResult) HasBuilding() bool {
	return e.Building != ""
}

// Prompt is the input of one text-generation call.
type Prompt struct {
	System  string
	User    string
	History string // previous turns, newline separated; may be empty
}

// GenerationParams bounds a single generation call.
type GenerationParams struct {
	MaxTokens   int
	Temperature float64
}
