package catalog

import (
	"testing"

	"github.com/poiesic/qagen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSources() Sources {
	return Sources{
		FileHeaders:     []Entry{{Name: "plain", Description: "File: {file_name}"}},
		QuestionPrompts: []Entry{{Name: "q", Description: "{file_content}\n{generate_question} {instruction}"}},
		AnswerPrompts: []Entry{
			{Name: "a", Description: "{file_content}\n{instruction}\n{question}"},
			{Name: "a", Description: "shadowed"},
		},
		QuestionInstructions: []InstructionList{{Name: "qi", Instructions: []string{"ask 2 questions"}}},
		AnswerInstructions:   []InstructionList{{Name: "ai", Instructions: []string{"answer concisely", "answer in detail"}}},
		QuestionSeeds:        []SeedList{{Name: "seeds", Questions: []string{"list the capabilities"}}},
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := New(testSources())

	tmpl, err := c.Resolve(KindFileHeader, "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", tmpl.Name)
	assert.Equal(t, "File: {file_name}", tmpl.Text)

	t.Run("first declaration wins", func(t *testing.T) {
		tmpl, err := c.Resolve(KindAnswerPrompt, "a")
		require.NoError(t, err)
		assert.Equal(t, "{file_content}\n{instruction}\n{question}", tmpl.Text)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := c.Resolve(KindQuestionPrompt, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrTemplateNotFound)
		assert.Contains(t, err.Error(), "question prompt")
	})

	t.Run("kinds are separate namespaces", func(t *testing.T) {
		_, err := c.Resolve(KindQuestionPrompt, "plain")
		assert.ErrorIs(t, err, core.ErrTemplateNotFound)
	})
}

func TestCatalog_List(t *testing.T) {
	c := New(testSources())

	list, err := c.List(KindAnswerInstructions, "ai")
	require.NoError(t, err)
	assert.Equal(t, []string{"answer concisely", "answer in detail"}, list)

	// Returned slices are copies
	list[0] = "changed"
	again, err := c.List(KindAnswerInstructions, "ai")
	require.NoError(t, err)
	assert.Equal(t, "answer concisely", again[0])

	seeds, err := c.List(KindQuestionSeeds, "seeds")
	require.NoError(t, err)
	assert.Equal(t, []string{"list the capabilities"}, seeds)

	_, err = c.List(KindQuestionInstructions, "missing")
	assert.ErrorIs(t, err, core.ErrTemplateNotFound)
}
