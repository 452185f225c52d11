package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	entries := []catalog.Entry{
		{SourceWord: "ciao", Gloss: "hello", Primary: "hello", Secondary: "你好", Frequency: 2, Rank: 1},
	}
	got, err := Render(entries, Options{})
	require.NoError(t, err)

	want := `// Italian Vocabulary Data - Enhanced with translations
// Total entries: 1
// Structure: {italian, dictionary, english, chinese, frequency, rank}

const VOCABULARY_DATA = [
  {
    "italian": "ciao",
    "dictionary": "hello",
    "english": "hello",
    "chinese": "你好",
    "frequency": 2,
    "rank": 1
  }
];

// Export for use in app.js
if (typeof module !== 'undefined' && module.exports) {
    module.exports = VOCABULARY_DATA;
}
`
	assert.Equal(t, want, string(got))
}

func TestRender_CustomNames(t *testing.T) {
	got, err := Render(nil, Options{Language: "German", ConstName: "WORDS"})
	require.NoError(t, err)
	assert.Contains(t, string(got), "// German Vocabulary Data")
	assert.Contains(t, string(got), "// Total entries: 0")
	assert.Contains(t, string(got), "const WORDS = [];")
	assert.Contains(t, string(got), "module.exports = WORDS;")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.js")
	n, err := WriteFile(path, []catalog.Entry{{SourceWord: "casa", Rank: 1}}, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}
