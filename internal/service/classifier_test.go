package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsKnowledgeQuery(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"what is photosynthesis", true},
		{"What is the capital of France?", true},
		{"who is Marie Curie", true},
		{"tell me about black holes", true},
		{"explain quantum computing", true},
		{"describe the water cycle", true},
		{"define entropy", true},
		{"search wikipedia for Alan Turing", true},
		{"give me facts about the moon", true},
		{"information about volcanoes", true},
		{"hello there", false},
		{"how are you", false},
		{"I love this whatsit", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			require.Equal(t, tt.want, isKnowledgeQuery(tt.message))
		})
	}
}

func TestIsCodeRequest(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"write code to sort a list", true},
		{"Write Code for a binary tree", true},
		{"generate code that parses JSON", true},
		{"show me some python code", true},
		{"javascript code for a debounce function", true},
		{"go code for an http server", true},
		{"c++ code for quicksort", true},
		{"how do I sort a list", false},
		{"I'm learning to code", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			require.Equal(t, tt.want, isCodeRequest(tt.message))
		})
	}
}
