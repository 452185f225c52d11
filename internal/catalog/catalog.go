package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Record is one vocabulary entry as read from the input catalog.
type Record struct {
	SourceWord   string
	Gloss        string
	Frequency    float64
	HasFrequency bool
	Rank         int
	HasRank      bool
}

// Item is a Record annotated with its 1-based position in the catalog.
type Item struct {
	Record
	Index int
	Total int
}

// Entry is an enhanced vocabulary record.
type Entry struct {
	SourceWord string
	Gloss      string
	Primary    string
	Secondary  string
	Frequency  float64
	Rank       int
}

// Translated reports whether both computed translations are present.
func (e Entry) Translated() bool {
	return e.Primary != "" && e.Secondary != ""
}

// Schema names the JSON keys used for catalog records.
type Schema struct {
	Source     string
	InputGloss string
	Gloss      string
	Primary    string
	Secondary  string
	Frequency  string
	Rank       string
}

// DefaultSchema matches the layout of the vocabulary data files:
// the input "english" gloss is carried over as "dictionary" and
// "english"/"chinese" hold the computed translations.
func DefaultSchema() Schema {
	return Schema{
		Source:     "italian",
		InputGloss: "english",
		Gloss:      "dictionary",
		Primary:    "english",
		Secondary:  "chinese",
		Frequency:  "frequency",
		Rank:       "rank",
	}
}

// Validate checks that every key is set and output keys do not collide.
func (s Schema) Validate() error {
	keys := map[string]string{
		"source":      s.Source,
		"input gloss": s.InputGloss,
		"gloss":       s.Gloss,
		"primary":     s.Primary,
		"secondary":   s.Secondary,
		"frequency":   s.Frequency,
		"rank":        s.Rank,
	}
	for name, key := range keys {
		if key == "" {
			return fmt.Errorf("schema %s key is empty", name)
		}
	}
	seen := make(map[string]bool)
	for _, key := range []string{s.Source, s.Gloss, s.Primary, s.Secondary, s.Frequency, s.Rank} {
		if seen[key] {
			return fmt.Errorf("schema output key %q is used twice", key)
		}
		seen[key] = true
	}
	return nil
}

// Load reads the catalog at path.
func Load(path string, schema Schema) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, schema)
}

// Parse decodes a catalog from a JSON array of objects.
//
// When an object already carries the output gloss key (an enhanced catalog
// read back in), the gloss is taken from it rather than the input gloss key,
// which in that layout holds a computed translation.
func Parse(data []byte, schema Schema) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("catalog must be a JSON array, got %s", root.Type)
	}

	var (
		records []Record
		bad     error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			bad = fmt.Errorf("catalog element %d is not an object", key.Int()+1)
			return false
		}
		rec := Record{
			SourceWord: value.Get(escapeKey(schema.Source)).String(),
		}
		if g := value.Get(escapeKey(schema.Gloss)); g.Exists() && schema.Gloss != schema.InputGloss {
			rec.Gloss = g.String()
		} else {
			rec.Gloss = value.Get(escapeKey(schema.InputGloss)).String()
		}
		if f := value.Get(escapeKey(schema.Frequency)); f.Exists() && f.Type != gjson.Null {
			rec.Frequency = f.Float()
			rec.HasFrequency = true
		}
		if r := value.Get(escapeKey(schema.Rank)); r.Exists() && r.Type != gjson.Null {
			rec.Rank = int(r.Int())
			rec.HasRank = true
		}
		records = append(records, rec)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Items annotates records with their 1-based global index, starting at
// offset (the number of records preceding the slice in the full catalog).
func Items(records []Record, offset, total int) []Item {
	items := make([]Item, len(records))
	for i, rec := range records {
		items[i] = Item{Record: rec, Index: offset + i + 1, Total: total}
	}
	return items
}

// Encode serializes entries as an indented JSON array with keys in schema
// order. Output is deterministic: the same entries always encode to the same
// bytes.
func Encode(entries []Entry, schema Schema) ([]byte, error) {
	var buf bytes.Buffer
	if len(entries) == 0 {
		buf.WriteString("[]\n")
		return buf.Bytes(), nil
	}
	buf.WriteString("[\n")
	for i, e := range entries {
		buf.WriteString("  {\n")
		fields := []struct {
			key   string
			value any
		}{
			{schema.Source, e.SourceWord},
			{schema.Gloss, e.Gloss},
			{schema.Primary, e.Primary},
			{schema.Secondary, e.Secondary},
			{schema.Frequency, e.Frequency},
			{schema.Rank, e.Rank},
		}
		for j, f := range fields {
			k, err := marshalValue(f.key)
			if err != nil {
				return nil, err
			}
			v, err := marshalValue(f.value)
			if err != nil {
				return nil, fmt.Errorf("entry %d field %s: %w", i+1, f.key, err)
			}
			buf.WriteString("    ")
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
			if j < len(fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("  }")
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// Decode parses entries previously written by Encode.
func Decode(data []byte, schema Schema) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("entries are not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("entries must be a JSON array, got %s", root.Type)
	}
	entries := []Entry{}
	var bad error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			bad = fmt.Errorf("entry %d is not an object", key.Int()+1)
			return false
		}
		entries = append(entries, Entry{
			SourceWord: value.Get(escapeKey(schema.Source)).String(),
			Gloss:      value.Get(escapeKey(schema.Gloss)).String(),
			Primary:    value.Get(escapeKey(schema.Primary)).String(),
			Secondary:  value.Get(escapeKey(schema.Secondary)).String(),
			Frequency:  value.Get(escapeKey(schema.Frequency)).Float(),
			Rank:       int(value.Get(escapeKey(schema.Rank)).Int()),
		})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return entries, nil
}

// FailedIndices returns the 1-based positions of entries missing a translation.
func FailedIndices(entries []Entry) []int {
	var failed []int
	for i, e := range entries {
		if !e.Translated() {
			failed = append(failed, i+1)
		}
	}
	return failed
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// escapeKey makes a literal object key safe to use as a gjson path.
func escapeKey(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b = append(b, '\\')
		}
		b = append(b, key[i])
	}
	return string(b)
}
