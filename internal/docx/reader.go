// Package docx reads paragraphs and formatting signals out of .docx files.
//
// Only the pieces of WordprocessingML that matter for agenda processing are
// parsed: body-level paragraphs, their style name, and per-run strikethrough
// formatting. Each paragraph carries a done/todo status hint derived from
// section headers and the fraction of struck-through text.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"
)

// Status classifies a paragraph as completed or still open.
type Status string

const (
	StatusDone Status = "done"
	StatusTodo Status = "todo"
)

// Section header prefixes, matched against the upper-cased paragraph text.
// A match switches the running section status until the next header; the
// switch never resets at section or document end.
var (
	doneSectionPrefixes    = []string{"DONE -", "DONE:", "COMPLETED -", "COMPLETED:"}
	workingSectionPrefixes = []string{"[WORKING ON]", "WORKING ON", "IN PROGRESS", "[IN PROGRESS]"}
)

// strikeDoneThreshold is the struck-character ratio above which a paragraph
// counts as done even outside a DONE section.
const strikeDoneThreshold = 0.60

// Paragraph is one non-empty paragraph of a source document plus its
// formatting signals.
type Paragraph struct {
	// Index is the paragraph's position in the underlying document. Indices
	// of skipped empty paragraphs are not reassigned, so gaps are expected;
	// the value is an opaque identifier, not a dense sequence.
	Index int    `json:"index"`
	Text  string `json:"text"`
	// StyleName is the document style label, informational only.
	StyleName   string  `json:"style"`
	HasStrike   bool    `json:"has_strike"`
	StrikeRatio float64 `json:"strike_ratio"`
	// SectionStatusHint is the status carried forward from the most recently
	// seen section header; empty when no header has been seen yet.
	SectionStatusHint Status `json:"section_status_hint,omitempty"`
	StatusHint        Status `json:"status_hint"`
}

// ReadError reports a source document that could not be parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to read document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to read document: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WordprocessingML subset needed for paragraph and run extraction. Tags match
// by local name, so the w: namespace does not need to be declared.
type xmlDocument struct {
	Body xmlBody `xml:"body"`
}

type xmlBody struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	Props *xmlParaProps `xml:"pPr"`
	Runs  []xmlRun      `xml:"r"`
}

type xmlParaProps struct {
	Style *xmlVal `xml:"pStyle"`
}

type xmlRun struct {
	Props *xmlRunProps `xml:"rPr"`
	Texts []string     `xml:"t"`
}

type xmlRunProps struct {
	Strike *xmlVal `xml:"strike"`
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

func (r xmlRun) text() string {
	return strings.Join(r.Texts, "")
}

// struck reports whether the run is rendered with strikethrough. A bare
// <w:strike/> toggles it on; an explicit false value turns it off.
func (r xmlRun) struck() bool {
	if r.Props == nil || r.Props.Strike == nil {
		return false
	}
	switch strings.ToLower(r.Props.Strike.Val) {
	case "false", "0", "none", "off":
		return false
	}
	return true
}

// ReadFile parses the .docx at path into its ordered non-empty paragraphs.
func ReadFile(path string) ([]Paragraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	pars, err := ReadBytes(data)
	if err != nil {
		var re *ReadError
		if errors.As(err, &re) {
			re.Path = path
		}
		return nil, err
	}
	return pars, nil
}

// ReadBytes parses an in-memory .docx into its ordered non-empty paragraphs.
func ReadBytes(data []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("not a valid docx container: %w", err)}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, &ReadError{Err: fmt.Errorf("cannot open document part: %w", err)}
			}
			var buf bytes.Buffer
			_, err = buf.ReadFrom(rc)
			rc.Close()
			if err != nil {
				return nil, &ReadError{Err: fmt.Errorf("cannot read document part: %w", err)}
			}
			docXML = buf.Bytes()
			break
		}
	}
	if docXML == nil {
		return nil, &ReadError{Err: fmt.Errorf("missing word/document.xml")}
	}

	var doc xmlDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return nil, &ReadError{Err: fmt.Errorf("malformed document XML: %w", err)}
	}

	return annotate(doc.Body.Paragraphs), nil
}

// annotate runs the single-pass status state machine over the raw paragraphs.
func annotate(raw []xmlParagraph) []Paragraph {
	var out []Paragraph
	var sectionStatus Status

	for idx, p := range raw {
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.text())
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}

		upper := strings.ToUpper(text)
		if hasAnyPrefix(upper, doneSectionPrefixes) {
			sectionStatus = StatusDone
		} else if hasAnyPrefix(upper, workingSectionPrefixes) {
			sectionStatus = StatusTodo
		}

		totalChars := 0
		strikeChars := 0
		hasStrike := false
		for _, r := range p.Runs {
			runText := r.text()
			if runText == "" {
				continue
			}
			runLen := utf8.RuneCountInString(runText)
			totalChars += runLen
			if r.struck() {
				hasStrike = true
				strikeChars += runLen
			}
		}
		ratio := 0.0
		if totalChars > 0 {
			ratio = float64(strikeChars) / float64(totalChars)
		}
		ratio = round3(ratio)

		status := StatusTodo
		if sectionStatus == StatusDone {
			status = StatusDone
		} else if hasStrike && ratio >= strikeDoneThreshold {
			status = StatusDone
		}

		styleName := ""
		if p.Props != nil && p.Props.Style != nil {
			styleName = p.Props.Style.Val
		}

		out = append(out, Paragraph{
			Index:             idx,
			Text:              text,
			StyleName:         styleName,
			HasStrike:         hasStrike,
			StrikeRatio:       ratio,
			SectionStatusHint: sectionStatus,
			StatusHint:        status,
		})
	}

	return out
}

// PlainText joins the non-empty paragraph texts of an in-memory .docx with
// newlines, for sources that are processed as unstructured notes.
func PlainText(data []byte) (string, error) {
	pars, err := ReadBytes(data)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(pars))
	for _, p := range pars {
		lines = append(lines, p.Text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
