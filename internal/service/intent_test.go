package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSmallTalk(t *testing.T) {
	classifier := NewIntentClassifier()

	tests := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"Hi!", true},
		{"thank you so much", true},
		{"who are you?", true},
		{"ok", true},
		{"aaaa", true},
		{"test test", true},
		{"room 101", false},
		{"room 101, how are you", false},
		{"hi there, room 5", false},
		{"where is the dean's office", false},
		{"101", false},
		{"де кабінет 101", false},
		{"dean's office", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.IsSmallTalk(tt.input))
		})
	}
}

func TestIsIdentityQuery(t *testing.T) {
	classifier := NewIntentClassifier()

	assert.True(t, classifier.IsIdentityQuery("What is your name?"))
	assert.True(t, classifier.IsIdentityQuery("who are you"))
	assert.False(t, classifier.IsIdentityQuery("hello"))
}
