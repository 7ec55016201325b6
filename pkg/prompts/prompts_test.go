package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selwrite/selwrite/pkg/types"
)

func TestTruncateDocumentShortContentUnchanged(t *testing.T) {
	content := strings.Repeat("a", 4000)
	assert.Equal(t, content, TruncateDocument(content, MaxDocumentLength))
}

func TestTruncateDocumentKeepsHeadAndTail(t *testing.T) {
	head := strings.Repeat("H", 2000)
	middle := strings.Repeat("M", 5000)
	tail := strings.Repeat("T", 2000)
	content := head + middle + tail // 9000 chars

	got := TruncateDocument(content, MaxDocumentLength)

	assert.Equal(t, head+ElisionMarker+tail, got)
	assert.True(t, strings.HasPrefix(got, head))
	assert.True(t, strings.HasSuffix(got, tail))
	assert.NotContains(t, got, "M")
}

func TestTruncateDocumentRuneSafe(t *testing.T) {
	content := strings.Repeat("漢", 100)
	got := TruncateDocument(content, 10)
	assert.Equal(t, strings.Repeat("漢", 5)+ElisionMarker+strings.Repeat("漢", 5), got)
}

func TestBuildSubstitutesAllFields(t *testing.T) {
	got := Build("SELECTED", "DOCUMENT", "THEME", types.WriteModeOverwrite)

	assert.Contains(t, got, "SELECTED")
	assert.Contains(t, got, "DOCUMENT")
	assert.Contains(t, got, "THEME")
	assert.NotContains(t, got, "{selected_text}")
	assert.NotContains(t, got, "{document_content}")
	assert.NotContains(t, got, "{theme_prompt}")
}

func TestBuildDefaultsBlankTheme(t *testing.T) {
	got := Build("s", "d", "   ", types.WriteModeIncremental)
	assert.Contains(t, got, DefaultTheme)
}

func TestBuildSelectsTemplateByMode(t *testing.T) {
	overwrite := Build("s", "d", "t", types.WriteModeOverwrite)
	incremental := Build("s", "d", "t", types.WriteModeIncremental)
	cursor := Build("s", "d", "t", types.WriteModeCursorInsert)

	assert.Contains(t, overwrite, "rewrite and improve the entire document")
	assert.Contains(t, incremental, "continuation content")
	assert.Contains(t, cursor, "cursor position")
	assert.NotEqual(t, overwrite, incremental)
	assert.NotEqual(t, incremental, cursor)
}

func TestBuildTruncatesLongDocuments(t *testing.T) {
	longDoc := strings.Repeat("x", 9000)
	got := Build("s", longDoc, "t", types.WriteModeOverwrite)
	assert.Contains(t, got, ElisionMarker)
	assert.NotContains(t, got, longDoc)
}
