package docstore

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selwrite/selwrite/pkg/types"
)

func TestHasZipSignature(t *testing.T) {
	assert.True(t, hasZipSignature([]byte{'P', 'K', 0x03, 0x04, 0x00}))
	assert.False(t, hasZipSignature([]byte("plain text")))
	assert.False(t, hasZipSignature([]byte{'P', 'K'}))
}

func TestDocxWriteReadRoundTrip(t *testing.T) {
	store := New()
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.NoError(t, store.Write(path, "First paragraph.\n\nSecond paragraph.", types.WriteModeOverwrite))

	// The container now carries the zip signature.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, hasZipSignature(data))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Contains(t, got, "First paragraph.")
	assert.Contains(t, got, "Second paragraph.")
}

func TestDocxIncrementalKeepsExistingParagraphs(t *testing.T) {
	store := New()
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.NoError(t, store.Write(path, "Opening paragraph.", types.WriteModeOverwrite))
	require.NoError(t, store.Write(path, "Appended paragraph.", types.WriteModeIncremental))

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Contains(t, got, "Opening paragraph.")
	assert.Contains(t, got, "Appended paragraph.")
}

// buildRawDocx assembles a minimal OOXML container by hand, bypassing the
// structural library, to exercise the raw-XML extraction fallback.
func buildRawDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocxTextFromRawXML(t *testing.T) {
	store := New()
	xmlBody := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First para, </w:t></w:r><w:r><w:t>joined runs.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second para.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`
	data := buildRawDocx(t, xmlBody)

	got, err := store.extractDocxText("test.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "First para, joined runs.\nSecond para.", got)
}

func TestExtractDocxTextMissingDocumentXML(t *testing.T) {
	store := New()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = store.extractDocxText("test.docx", buf.Bytes())
	var ae *AccessError
	require.ErrorAs(t, err, &ae)
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("a\n\n  \n\nb\n\nc")
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
