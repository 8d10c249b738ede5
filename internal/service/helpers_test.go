package service

import (
	"context"
	"sync"

	"poli-assistant/internal/model"
)

// fixedChooser always picks the same index, wrapped into range
type fixedChooser int

func (f fixedChooser) Intn(n int) int {
	return int(f) % n
}

// stubGenerator returns canned text and records every prompt it receives
type stubGenerator struct {
	mu      sync.Mutex
	reply   func(prompt model.Prompt) (string, error)
	prompts []model.Prompt
	enabled bool
}

func newStubGenerator(reply func(prompt model.Prompt) (string, error)) *stubGenerator {
	return &stubGenerator{reply: reply, enabled: true}
}

func (g *stubGenerator) Generate(_ context.Context, prompt model.Prompt, _ model.GenerationParams) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.reply(prompt)
}

func (g *stubGenerator) IsEnabled() bool {
	return g.enabled
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func sampleRooms() []model.RoomRecord {
	return []model.RoomRecord{
		{Building: "1", Number: "101", Names: model.JSONArray{"Lecture Hall"}, Floor: "1", Wing: "east", Street: "12 Bandery St", Code: 7},
		{Building: "1", Number: "102", Names: model.JSONArray{"Dean's Office"}, Floor: "1", Wing: "west", Street: "12 Bandery St", Code: 8},
		{Building: "1", Number: "205", Floor: "2", Code: 21},
		{Building: "4", Number: "101", Names: model.JSONArray{"Physics Lab"}, Floor: "1", Wing: "north", Street: "1 Mytropolyta Andreya St", Code: 40},
	}
}
