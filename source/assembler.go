package source

import (
	"log/slog"
	"strings"

	"github.com/poiesic/qagen/catalog"
	"github.com/spf13/afero"
)

// Assembler concatenates located files into a single content block.
type Assembler struct {
	locator *Locator
	fs      afero.Fs
	logger  *slog.Logger
}

// NewAssembler creates an assembler reading files found by locator.
func NewAssembler(fs afero.Fs, locator *Locator, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		locator: locator,
		fs:      fs,
		logger:  logger.With("component", "assembler"),
	}
}

// BuildContent renders header with file_name set to each reference, followed
// by a newline, the raw file content and a blank separator line.
// Files that cannot be located or read are skipped with a warning. An empty
// result means no file resolved. The only error returned is a header render
// failure, which affects every file equally.
func (a *Assembler) BuildContent(files []string, header catalog.Template) (string, error) {
	var b strings.Builder
	for _, rel := range files {
		path, err := a.locator.Locate(rel)
		if err != nil {
			a.logger.Warn("skipping file", "file", rel, "base_dir", a.locator.BaseDir(), "err", err)
			continue
		}

		content, err := afero.ReadFile(a.fs, path)
		if err != nil {
			a.logger.Warn("skipping unreadable file", "file", rel, "path", path, "err", err)
			continue
		}

		rendered, err := header.Render(catalog.Vars{catalog.FieldFileName: rel})
		if err != nil {
			return "", err
		}

		b.WriteString(rendered)
		b.WriteString("\n")
		b.Write(content)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
