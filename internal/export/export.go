// Package export renders an enhanced catalog as a JavaScript source file
// that defines the catalog as a constant.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/files"
)

const DefaultConstName = "VOCABULARY_DATA"

// Options controls the generated file.
type Options struct {
	Schema catalog.Schema
	// Language is the display name of the source language used in the header.
	Language  string
	ConstName string
}

// Render returns the JS file for entries.
func Render(entries []catalog.Entry, opts Options) ([]byte, error) {
	if opts.Schema == (catalog.Schema{}) {
		opts.Schema = catalog.DefaultSchema()
	}
	if opts.ConstName == "" {
		opts.ConstName = DefaultConstName
	}
	if opts.Language == "" {
		opts.Language = "Italian"
	}
	data, err := catalog.Encode(entries, opts.Schema)
	if err != nil {
		return nil, err
	}
	s := opts.Schema
	fields := strings.Join([]string{s.Source, s.Gloss, s.Primary, s.Secondary, s.Frequency, s.Rank}, ", ")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// %s Vocabulary Data - Enhanced with translations\n", opts.Language)
	fmt.Fprintf(&buf, "// Total entries: %d\n", len(entries))
	fmt.Fprintf(&buf, "// Structure: {%s}\n\n", fields)
	fmt.Fprintf(&buf, "const %s = %s;\n\n", opts.ConstName, bytes.TrimRight(data, "\n"))
	buf.WriteString("// Export for use in app.js\n")
	buf.WriteString("if (typeof module !== 'undefined' && module.exports) {\n")
	fmt.Fprintf(&buf, "    module.exports = %s;\n", opts.ConstName)
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// WriteFile renders entries and atomically writes them to path, returning
// the number of bytes written.
func WriteFile(path string, entries []catalog.Entry, opts Options) (int, error) {
	data, err := Render(entries, opts)
	if err != nil {
		return 0, err
	}
	if err := files.AtomicWrite(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return len(data), nil
}
