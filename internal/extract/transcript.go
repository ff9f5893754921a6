package extract

import (
	"io"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
	"golang.org/x/net/html"
)

// TranscriptImporter turns an HTML export of interview notes, survey answers
// or reviews into research entries. Each sentence inside a paragraph-like
// element becomes a statement; the closest preceding heading becomes its context.
type TranscriptImporter struct {
	MinLength int // Shorter sentences are dropped
	MaxLength int // Longer sentences are dropped
}

// NewTranscriptImporter creates an importer with default sentence bounds
func NewTranscriptImporter() *TranscriptImporter {
	return &TranscriptImporter{
		MinLength: 10,
		MaxLength: 500,
	}
}

var blockTags = map[string]bool{
	"p": true, "li": true, "blockquote": true, "td": true, "dd": true,
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Import parses HTML and returns one entry per statement, attributed to source
func (t *TranscriptImporter) Import(r io.Reader, source string) ([]model.ResearchEntry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []model.ResearchEntry
	heading := ""

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipElement(n) {
				return
			}
			if headingTags[n.Data] {
				heading = normalizeSpace(visibleText(n))
				return
			}
			if blockTags[n.Data] {
				for _, sentence := range t.sentences(visibleText(n)) {
					entries = append(entries, model.ResearchEntry{
						Statement: sentence,
						Source:    source,
						Context:   heading,
					})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Plain documents without paragraph markup
	if len(entries) == 0 {
		for _, sentence := range t.sentences(visibleText(doc)) {
			entries = append(entries, model.ResearchEntry{Statement: sentence, Source: source})
		}
	}

	return dedupeEntries(entries), nil
}

func skipElement(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript", "iframe", "head":
		return true
	}
	return false
}

// visibleText extracts text nodes below n, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElement(n) {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// sentences splits text on sentence terminators and applies length bounds
func (t *TranscriptImporter) sentences(text string) []string {
	text = normalizeSpace(text)

	var sentences []string
	var current strings.Builder

	keep := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= t.MinLength && len(sentence) <= t.MaxLength {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		// Only split when the terminator is followed by a space so decimals like "3.5" survive
		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && text[i+1] == ' ' {
				keep()
			}
		}
	}

	if current.Len() > 0 {
		keep()
	}

	return sentences
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dedupeEntries removes exact repeats of the same statement under the same heading
func dedupeEntries(entries []model.ResearchEntry) []model.ResearchEntry {
	seen := make(map[string]bool)
	var unique []model.ResearchEntry

	for _, e := range entries {
		key := strings.ToLower(e.Context) + "\x00" + strings.ToLower(e.Statement)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, e)
		}
	}

	return unique
}
