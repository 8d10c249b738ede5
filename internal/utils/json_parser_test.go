package utils

import (
	"testing"
)

func TestParseModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"room": "101", "building": "1"}`,
			want:  map[string]interface{}{"room": "101", "building": "1"},
		},
		{
			name:  "JSON with surrounding chatter",
			input: `Sure! Here is the result: {"room": "204a", "building": ""} Hope this helps.`,
			want:  map[string]interface{}{"room": "204a", "building": ""},
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"room": "310", "building": "1"}` + "\n```",
			want:  map[string]interface{}{"room": "310", "building": "1"},
		},
		{
			name:  "Nested object yields the first flat object",
			input: `{"result": {"room": "101"}}`,
			want:  map[string]interface{}{"room": "101"},
		},
		{
			name:  "Numeric values",
			input: `{"room": 101, "building": 1}`,
			want:  map[string]interface{}{"room": float64(101), "building": float64(1)},
		},
		{
			name:  "Trailing comma",
			input: `{"room": "101",}`,
			want:  map[string]interface{}{"room": "101"},
		},
		{
			name:  "Unquoted keys",
			input: `{room: "101", building: "1"}`,
			want:  map[string]interface{}{"room": "101", "building": "1"},
		},
		{
			name:  "Single quotes",
			input: `{'room': '101', 'building': '1'}`,
			want:  map[string]interface{}{"room": "101", "building": "1"},
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "No JSON at all",
			input:   "I could not find any room numbers in your message.",
			wantErr: true,
		},
		{
			name:    "Unclosed object",
			input:   `{"room": "101"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseModelJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseModelJSON() got = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseModelJSON()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestExtractBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Simple object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "Nested objects",
			input: `{"a": {"b": 2}} trailing`,
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "Braces inside strings",
			input: `{"text": "Hello {world}"}`,
			want:  `{"text": "Hello {world}"}`,
		},
		{
			name:  "Unbalanced",
			input: `{"a": {"b": 2}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractBalancedObject(tt.input)
			if got != tt.want {
				t.Errorf("extractBalancedObject() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFixSingleQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Single quoted object",
			input: `{'room': '101'}`,
			want:  `{"room": "101"}`,
		},
		{
			name:  "Apostrophe inside double quotes",
			input: `{"name": "Dean's office"}`,
			want:  `{"name": "Dean's office"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixSingleQuotes(tt.input)
			if got != tt.want {
				t.Errorf("fixSingleQuotes() = %v, want %v", got, tt.want)
			}
		})
	}
}
