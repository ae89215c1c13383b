package checksumline

import (
	"fmt"

	"github.com/valyala/fasttemplate"

	"fancyhash/internal/algo"
)

const (
	// ListFormat is the default compute output, readable by Parse.
	ListFormat = "{digest} *{file}"

	// TagFormat is the bsd tag output selected by --tag.
	TagFormat = "{ALGORITHM} ({file}) = {digest}"
)

// Formatter renders compute results. Templates may use the tags {digest},
// {file}, {algorithm} and {ALGORITHM}.
type Formatter struct {
	tpl *fasttemplate.Template
}

// NewFormatter compiles format. An empty format selects ListFormat.
func NewFormatter(format string) (*Formatter, error) {
	const errCtx = "compiling output format"

	if format == "" {
		format = ListFormat
	}
	tpl, err := fasttemplate.NewTemplate(format, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}
	return &Formatter{tpl: tpl}, nil
}

// Format renders one result line without a terminator.
func (f *Formatter) Format(d algo.Descriptor, hexsum, name string) string {
	return f.tpl.ExecuteString(map[string]interface{}{
		"digest":    hexsum,
		"file":      name,
		"algorithm": d.Name,
		"ALGORITHM": d.Label(),
	})
}

