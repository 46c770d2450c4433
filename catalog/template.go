package catalog

import (
	"fmt"
	"strings"
)

// Placeholders recognized by the generation templates.
const (
	FieldFileName         = "file_name"
	FieldFileContent      = "file_content"
	FieldInstruction      = "instruction"
	FieldGenerateQuestion = "generate_question"
	FieldFileNameList     = "file_name_list"
	FieldQuestion         = "question"
)

// Vars holds placeholder values for a Render call.
type Vars map[string]string

// Template is a named text template with {placeholder} fields.
// Literal braces are written as {{ and }}.
type Template struct {
	Name string
	Text string
}

// Render substitutes every {field} in the template with its value from vars.
// Unused vars are ignored. A field with no value, or an unbalanced brace,
// is an error wrapping ErrRender.
func (t Template) Render(vars Vars) (string, error) {
	var b strings.Builder
	b.Grow(len(t.Text))

	text := t.Text
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: template %q: unclosed '{' at offset %d", ErrRender, t.Name, i)
			}
			field := text[i+1 : i+1+end]
			value, ok := vars[field]
			if !ok {
				return "", fmt.Errorf("%w: template %q: no value for {%s}", ErrRender, t.Name, field)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: template %q: single '}' at offset %d", ErrRender, t.Name, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
