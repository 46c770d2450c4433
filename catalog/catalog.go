package catalog

import (
	"fmt"

	"github.com/poiesic/qagen/core"
)

// TemplateKind selects one of the template sections of the catalog.
type TemplateKind int

const (
	// KindFileHeader templates prefix each file in assembled content.
	KindFileHeader TemplateKind = iota + 1
	// KindQuestionPrompt templates produce question generation prompts.
	KindQuestionPrompt
	// KindAnswerPrompt templates produce answer generation prompts.
	KindAnswerPrompt
)

func (k TemplateKind) String() string {
	switch k {
	case KindFileHeader:
		return "file header"
	case KindQuestionPrompt:
		return "question prompt"
	case KindAnswerPrompt:
		return "answer prompt"
	default:
		return fmt.Sprintf("template kind %d", int(k))
	}
}

// ListKind selects one of the string-list sections of the catalog.
type ListKind int

const (
	// KindQuestionInstructions lists shape question generation.
	KindQuestionInstructions ListKind = iota + 1
	// KindAnswerInstructions lists shape answer generation.
	KindAnswerInstructions
	// KindQuestionSeeds lists anchor question generation on a topic.
	KindQuestionSeeds
)

func (k ListKind) String() string {
	switch k {
	case KindQuestionInstructions:
		return "question instruction list"
	case KindAnswerInstructions:
		return "answer instruction list"
	case KindQuestionSeeds:
		return "question seed list"
	default:
		return fmt.Sprintf("list kind %d", int(k))
	}
}

// Entry is a named template as declared in configuration.
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// InstructionList is a named list of instructions as declared in configuration.
type InstructionList struct {
	Name         string   `yaml:"name"`
	Instructions []string `yaml:"instruction"`
}

// SeedList is a named list of question seeds as declared in configuration.
type SeedList struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
}

// Sources holds the raw catalog sections of a configuration document.
type Sources struct {
	FileHeaders          []Entry
	QuestionPrompts      []Entry
	AnswerPrompts        []Entry
	QuestionInstructions []InstructionList
	AnswerInstructions   []InstructionList
	QuestionSeeds        []SeedList
}

// Catalog resolves templates and lists by declared name.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	templates map[TemplateKind]map[string]Template
	lists     map[ListKind]map[string][]string
}

// New indexes the given sources by name. When a name is declared twice in
// the same section, the first declaration wins.
func New(src Sources) *Catalog {
	c := &Catalog{
		templates: map[TemplateKind]map[string]Template{
			KindFileHeader:     indexEntries(src.FileHeaders),
			KindQuestionPrompt: indexEntries(src.QuestionPrompts),
			KindAnswerPrompt:   indexEntries(src.AnswerPrompts),
		},
		lists: map[ListKind]map[string][]string{
			KindQuestionInstructions: make(map[string][]string),
			KindAnswerInstructions:   make(map[string][]string),
			KindQuestionSeeds:        make(map[string][]string),
		},
	}
	for _, l := range src.QuestionInstructions {
		addList(c.lists[KindQuestionInstructions], l.Name, l.Instructions)
	}
	for _, l := range src.AnswerInstructions {
		addList(c.lists[KindAnswerInstructions], l.Name, l.Instructions)
	}
	for _, l := range src.QuestionSeeds {
		addList(c.lists[KindQuestionSeeds], l.Name, l.Questions)
	}
	return c
}

// Resolve returns the template of the given kind and name.
// Returns an error wrapping core.ErrTemplateNotFound if it is not declared.
func (c *Catalog) Resolve(kind TemplateKind, name string) (Template, error) {
	t, ok := c.templates[kind][name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s %q", core.ErrTemplateNotFound, kind, name)
	}
	return t, nil
}

// List returns a copy of the list of the given kind and name.
// Returns an error wrapping core.ErrTemplateNotFound if it is not declared.
func (c *Catalog) List(kind ListKind, name string) ([]string, error) {
	l, ok := c.lists[kind][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", core.ErrTemplateNotFound, kind, name)
	}
	out := make([]string, len(l))
	copy(out, l)
	return out, nil
}

func indexEntries(entries []Entry) map[string]Template {
	m := make(map[string]Template, len(entries))
	for _, e := range entries {
		if _, exists := m[e.Name]; exists {
			continue
		}
		m[e.Name] = Template{Name: e.Name, Text: e.Description}
	}
	return m
}

func addList(m map[string][]string, name string, items []string) {
	if _, exists := m[name]; exists {
		return
	}
	m[name] = items
}
