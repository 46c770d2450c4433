package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "numbered list",
			text: "1. What does a.txt do?\n2. What does b.txt do?",
			want: []string{"What does a.txt do?", "What does b.txt do?"},
		},
		{
			name: "header lines without question marks are dropped",
			text: "Here are some questions:\n\n1. Why?\n\nThanks",
			want: []string{"Why?"},
		},
		{
			name: "bullets and emphasis",
			text: "- **How is config loaded?**\n* What is cached?\n+ Where are logs?",
			want: []string{"How is config loaded?", "What is cached?", "Where are logs?"},
		},
		{
			name: "multi-level numbering",
			text: "1.2. Which file is first?",
			want: []string{"Which file is first?"},
		},
		{
			name: "windows line endings",
			text: "1. One?\r\n2. Two?\r\n",
			want: []string{"One?", "Two?"},
		},
		{
			name: "bare carriage returns",
			text: "1. One?\r2. Two?\r3. Three?",
			want: []string{"One?", "Two?", "Three?"},
		},
		{
			name: "unicode line separators",
			text: "1. One?\u20282. Two?\u20293. Three?\u00854. Four?",
			want: []string{"One?", "Two?", "Three?", "Four?"},
		},
		{
			name: "form feed and vertical tab",
			text: "Intro\f1. One?\v2. Two?",
			want: []string{"One?", "Two?"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuestionList(tt.text))
		})
	}
}

func TestQuestions_Restartable(t *testing.T) {
	seq := Questions("1. First?\n2. Second?\n3. Third?")

	var first, second []string
	for q := range seq {
		first = append(first, q)
	}
	for q := range seq {
		second = append(second, q)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestQuestions_StopsEarly(t *testing.T) {
	var got []string
	for q := range Questions("1. First?\n2. Second?\n3. Third?") {
		got = append(got, q)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"First?", "Second?"}, got)
}
