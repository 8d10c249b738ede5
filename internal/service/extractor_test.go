package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"poli-assistant/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestExtractLexical(t *testing.T) {
	tests := []struct {
		input string
		want  model.ExtractionResult
	}{
		{"where is room 101", model.ExtractionResult{Room: "101"}},
		{"room 1015b in building 1", model.ExtractionResult{Room: "1015b", Building: "1"}},
		{"Building 4, room 230", model.ExtractionResult{Room: "230", Building: "4"}},
		{"bld2 room 305", model.ExtractionResult{Room: "305", Building: "2"}},
		{"аудиторія 120 корпус 3", model.ExtractionResult{Room: "120", Building: "3"}},
		{"room 12", model.ExtractionResult{}},
		{"phone 12345", model.ExtractionResult{}},
		{"hello", model.ExtractionResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLexical(tt.input))
		})
	}
}

func TestReconcileExtraction(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		lexical    model.ExtractionResult
		generative model.ExtractionResult
		want       model.ExtractionResult
	}{
		{
			name:       "verified generative values win",
			utterance:  "I need room 101 in the first building, number 1",
			lexical:    model.ExtractionResult{Room: "101"},
			generative: model.ExtractionResult{Room: "101", Building: "1"},
			want:       model.ExtractionResult{Room: "101", Building: "1"},
		},
		{
			name:       "hallucinated room falls back to lexical",
			utterance:  "where is room 101",
			lexical:    model.ExtractionResult{Room: "101"},
			generative: model.ExtractionResult{Room: "110"},
			want:       model.ExtractionResult{Room: "101"},
		},
		{
			name:       "containment is the only check",
			utterance:  "where is room 101",
			lexical:    model.ExtractionResult{Room: "101"},
			generative: model.ExtractionResult{Room: "101", Building: "1"},
			want:       model.ExtractionResult{Room: "101", Building: "1"},
		},
		{
			name:       "unverifiable building is dropped",
			utterance:  "where is room 205",
			lexical:    model.ExtractionResult{Room: "205"},
			generative: model.ExtractionResult{Room: "205", Building: "3"},
			want:       model.ExtractionResult{Room: "205"},
		},
		{
			name:       "empty generative keeps lexical",
			utterance:  "building 2 room 300",
			lexical:    model.ExtractionResult{Room: "300", Building: "2"},
			generative: model.ExtractionResult{},
			want:       model.ExtractionResult{Room: "300", Building: "2"},
		},
		{
			name:       "generative fills what the patterns miss",
			utterance:  "lab 12 of the second corpus 2",
			lexical:    model.ExtractionResult{},
			generative: model.ExtractionResult{Room: "12", Building: "2"},
			want:       model.ExtractionResult{Room: "12", Building: "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileExtraction(tt.utterance, tt.lexical, tt.generative))
		})
	}
}

func TestGenerativeExtractor(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		want   model.ExtractionResult
	}{
		{"plain json", `{"room": "101", "building": "1"}`, nil, model.ExtractionResult{Room: "101", Building: "1"}},
		{"numbers and chatter", `Sure! {"room": 101, "building": 1} hope this helps`, nil, model.ExtractionResult{Room: "101", Building: "1"}},
		{"padded values", `{"room": " 205 ", "building": ""}`, nil, model.ExtractionResult{Room: "205"}},
		{"missing fields", `{"floor": "2"}`, nil, model.ExtractionResult{}},
		{"not json", "I think it is room 101", nil, model.ExtractionResult{}},
		{"generator error", "", errors.New("boom"), model.ExtractionResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newStubGenerator(func(model.Prompt) (string, error) { return tt.output, tt.err })
			extractor := NewGenerativeExtractor(NewGenerationQueue(gen, 1, time.Second, nil), nil)

			got := extractor.Extract(context.Background(), "room 101", "User: hi")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerativeExtractorPrompt(t *testing.T) {
	gen := newStubGenerator(func(model.Prompt) (string, error) { return "{}", nil })
	extractor := NewGenerativeExtractor(NewGenerationQueue(gen, 1, time.Second, nil), nil)

	extractor.Extract(context.Background(), "room 101", "User: hi")

	if assert.Len(t, gen.prompts, 1) {
		assert.Equal(t, ExtractionSystemPrompt, gen.prompts[0].System)
		assert.Equal(t, "room 101", gen.prompts[0].User)
		assert.Equal(t, "User: hi", gen.prompts[0].History)
	}
}

func TestSlotExtractorRejectsHallucinations(t *testing.T) {
	gen := newStubGenerator(func(model.Prompt) (string, error) {
		return `{"room": "999", "building": "1"}`, nil
	})
	slots := NewSlotExtractor(NewGenerativeExtractor(NewGenerationQueue(gen, 1, time.Second, nil), nil))

	got := slots.Extract(context.Background(), "take me to 305", "")
	assert.Equal(t, model.ExtractionResult{Room: "305"}, got)
}

func TestSlotExtractorWithoutGenerator(t *testing.T) {
	slots := NewSlotExtractor(nil)

	got := slots.Extract(context.Background(), "building 1 room 101", "")
	assert.Equal(t, model.ExtractionResult{Room: "101", Building: "1"}, got)
}
