package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// documentPart is the main story of a WordprocessingML package.
const documentPart = "word/document.xml"

// extractDocx returns the text of every top-level body paragraph, one per
// line. Empty paragraphs become blank lines so the original spacing survives.
// Paragraphs nested in tables or text boxes are not part of the body flow
// and are skipped.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: FormatDocx, Err: fmt.Errorf("open zip: %w", err)}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &DecodeError{Format: FormatDocx, Err: fmt.Errorf("%s not found in archive", documentPart)}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &DecodeError{Format: FormatDocx, Err: fmt.Errorf("open %s: %w", documentPart, err)}
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", &DecodeError{Format: FormatDocx, Err: err}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// anchored lists elements that embed separate content (text boxes, shapes,
// drawings) inside a run. Their text belongs to the anchored object, not
// to the surrounding paragraph.
var anchored = map[string]bool{
	"AlternateContent": true,
	"txbxContent":      true,
	"drawing":          true,
	"pict":             true,
	"object":           true,
}

// readParagraphs walks document.xml and collects the text of each w:p that
// is a direct child of w:body. Text comes from w:t runs; w:tab and w:br/w:cr
// inside a run map to a tab and a newline.
func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack       []string
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		skipDepth   int // > 0 while inside an anchored object
	)

	parent := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inParagraph && t.Name.Local == "p" && parent() == "body" {
				inParagraph = true
				current.Reset()
			} else if inParagraph && anchored[t.Name.Local] {
				skipDepth++
			} else if inParagraph && skipDepth == 0 && parent() == "r" {
				switch t.Name.Local {
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, t.Name.Local)

		case xml.CharData:
			if inParagraph && skipDepth == 0 && parent() == "t" {
				current.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if inParagraph && anchored[t.Name.Local] {
				skipDepth--
			}
			if inParagraph && t.Name.Local == "p" && parent() == "body" {
				paragraphs = append(paragraphs, current.String())
				inParagraph = false
			}
		}
	}

	return paragraphs, nil
}
