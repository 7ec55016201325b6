package docstore

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
)

// hasZipSignature reports whether data starts with the OOXML container's
// PK zip magic.
func hasZipSignature(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], []byte{'P', 'K', 0x03, 0x04})
}

// readDocx extracts per-paragraph text from a Word document. If the
// structural parser rejects the file, the raw XML parts are mined
// directly as a fallback.
func (s *Store) readDocx(path string, data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Warn("structural parse of %s failed (%v), extracting raw XML text", path, err)
		return s.extractDocxText(path, data)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, strings.TrimRight(fmt.Sprint(p), "\r\n"))
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// extractDocxText pulls paragraph text straight out of the container's
// word/document.xml, ignoring all structure beyond w:p and w:t elements.
func (s *Store) extractDocxText(path string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &AccessError{Path: path, Op: "read", Err: err}
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", &AccessError{Path: path, Op: "read", Err: err}
			}
			break
		}
	}
	if docXML == nil {
		return "", &AccessError{Path: path, Op: "read", Err: fmt.Errorf("container has no word/document.xml")}
	}
	defer docXML.Close()

	var paragraphs []string
	var current strings.Builder
	var inText bool

	decoder := xml.NewDecoder(docXML)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &AccessError{Path: path, Op: "decode", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if current.Len() > 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}

// writeDocx builds a fresh document from the merged text's blank-line
// separated paragraphs and swaps it into place atomically. When the
// container cannot be produced, the content is saved as a sibling .txt
// instead of corrupting the original.
func (s *Store) writeDocx(path, merged string) error {
	doc := docx.New().WithDefaultTheme()
	for _, para := range splitParagraphs(merged) {
		doc.AddParagraph().AddText(para)
	}

	staged, err := stageDocx(path, doc)
	if err != nil {
		sibling := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
		s.logger.Warn("could not build docx for %s (%v), saving plain text to %s", path, err, sibling)
		return s.writeAtomic(sibling, []byte(merged))
	}
	defer os.Remove(staged)

	if err := replaceFile(staged, path); err != nil {
		return &AccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// stageDocx serializes the document into a colocated temp file and syncs
// it, mirroring the text staging path.
func stageDocx(target string, doc *docx.Docx) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(target), ".selwrite-*.docx.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := f.Name()

	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func splitParagraphs(content string) []string {
	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}
