package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Render(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars Vars
		want string
	}{
		{
			name: "single field",
			text: "File: {file_name}",
			vars: Vars{FieldFileName: "a.txt"},
			want: "File: a.txt",
		},
		{
			name: "repeated and unused fields",
			text: "{question} / {question}",
			vars: Vars{FieldQuestion: "Why?", FieldInstruction: "unused"},
			want: "Why? / Why?",
		},
		{
			name: "escaped braces",
			text: "{{\"json\": {{}}}} {instruction}",
			vars: Vars{FieldInstruction: "go"},
			want: "{\"json\": {}} go",
		},
		{
			name: "values are not re-expanded",
			text: "{file_content}",
			vars: Vars{FieldFileContent: "func main() { {question} }"},
			want: "func main() { {question} }",
		},
		{
			name: "no fields",
			text: "plain text",
			vars: nil,
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Template{Name: "t", Text: tt.text}.Render(tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplate_RenderErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "unknown field", text: "{file_name_list}"},
		{name: "unclosed brace", text: "hello {question"},
		{name: "stray closing brace", text: "hello }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Template{Name: "broken", Text: tt.text}.Render(Vars{FieldQuestion: "q"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRender)
			assert.Contains(t, err.Error(), "broken")
		})
	}
}
