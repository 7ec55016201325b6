// Package prompts builds the generation prompt for each write mode and
// keeps long documents inside the provider context budget.
package prompts

import (
	"strings"

	"github.com/selwrite/selwrite/pkg/types"
)

// MaxDocumentLength is the default budget for document content embedded in
// a prompt. Longer documents keep their head and tail halves with an
// elision marker in between.
const MaxDocumentLength = 4000

// ElisionMarker replaces the middle of an over-long document.
const ElisionMarker = "\n...[content too long, middle omitted]...\n"

// DefaultTheme is substituted when the user supplied no theme prompt.
const DefaultTheme = "No specific theme requirements; keep the original document's professional style and direction."

const overwriteTemplate = `You are a professional text optimization assistant. Using the selected text and the document content below, together with the theme requirements, rewrite and improve the entire document.

## Requirements:
1. **Holistic analysis**: study the selected text and the whole document to understand context and logical flow
2. **Theme consistency**: keep the generated content aligned with the user's theme requirements
3. **Complete content**: the rewritten document must preserve the original's core information, expanded around the selected text
4. **Clean formatting**: keep the document tidy, with clear, readable paragraphs
5. **Fluent language**: ensure the writing flows naturally and coherently
6. **Rewrite scope**: rewrite the whole document, not just the selected passage

## User input:

### Selected text (primary focus):
{selected_text}

### Document content (consider as a whole):
{document_content}

### Theme requirements (if any):
{theme_prompt}

Produce the complete rewritten document. Do not output any extra explanation; return only the final rewritten document content.`

const incrementalTemplate = `You are a professional text continuation assistant. Using the selected text and the document content below, together with the theme requirements, generate continuation content to append to the document.

## Requirements:
1. **Context awareness**: study the selected text and document content to understand context and logical flow
2. **Theme consistency**: keep the generated content aligned with the user's theme requirements
3. **Additions only**: generate new content only; never repeat the existing document
4. **Natural transition**: the new content must follow on naturally from the existing document
5. **Fluent language**: ensure the writing flows naturally
6. **Reasonable expansion**: expand on the selected text and theme requirements

## User input:

### Selected text (primary focus):
{selected_text}

### Document content (for context):
{document_content}

### Theme requirements (if any):
{theme_prompt}

Produce the continuation content so that it follows the existing document naturally. Do not output any extra explanation; return only the final continuation content.`

const cursorTemplate = `You are a professional text completion assistant. Using the selected text and the document content below, together with the theme requirements, generate content to insert at the cursor position.

## Requirements:
1. **Context awareness**: study the selected text and document content to understand context and logical flow
2. **Theme consistency**: keep the generated content aligned with the user's theme requirements
3. **Precise insertion**: generate only the content for the cursor position; never repeat the existing document
4. **Natural transition**: the inserted content must read naturally in place
5. **Fluent language**: ensure the writing flows naturally
6. **Leave context intact**: never modify or rewrite the surrounding document content

## User input:

### Selected text (primary focus):
{selected_text}

### Document content (for context):
{document_content}

### Theme requirements (if any):
{theme_prompt}

Produce the content for the cursor position so that it reads naturally in place. Do not output any extra explanation; return only the final inserted content.`

// templateFor selects the fixed template for a write mode.
func templateFor(mode types.WriteMode) string {
	switch mode {
	case types.WriteModeOverwrite:
		return overwriteTemplate
	case types.WriteModeCursorInsert:
		return cursorTemplate
	default:
		return incrementalTemplate
	}
}

// TruncateDocument bounds content to maxLen characters by keeping the
// first and last maxLen/2 runes and inserting the elision marker. Content
// within the budget is returned unchanged.
func TruncateDocument(content string, maxLen int) string {
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	half := maxLen / 2
	return string(runes[:half]) + ElisionMarker + string(runes[len(runes)-half:])
}

// Build assembles the full prompt for one generation request. Blank theme
// prompts get the neutral default so the template never carries an empty
// section.
func Build(selectedText, documentContent, themePrompt string, mode types.WriteMode) string {
	documentContent = TruncateDocument(documentContent, MaxDocumentLength)
	if strings.TrimSpace(themePrompt) == "" {
		themePrompt = DefaultTheme
	}

	prompt := templateFor(mode)
	prompt = strings.ReplaceAll(prompt, "{selected_text}", selectedText)
	prompt = strings.ReplaceAll(prompt, "{document_content}", documentContent)
	prompt = strings.ReplaceAll(prompt, "{theme_prompt}", themePrompt)
	return prompt
}

// ValidationPrompt is the 1-token probe used to confirm a credential is
// accepted by the provider.
const ValidationPrompt = "ping"
