package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

type TextChunker interface {
	Chunk(text string) []string
}

type textChunker struct {
	maxChars int
	overlap  int
}

// NewTextChunker packs paragraphs into chunks of at most maxChars runes. Consecutive
// chunks share up to overlap runes of context, cut at a word boundary.
func NewTextChunker(maxChars, overlap int) TextChunker {
	if maxChars <= 0 {
		maxChars = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 4
	}

	return &textChunker{
		maxChars: maxChars,
		overlap:  overlap,
	}
}

type chunkPiece struct {
	text   string
	joiner string
}

// Chunk implements TextChunker.
func (tc *textChunker) Chunk(text string) []string {
	var chunks []string
	var buf strings.Builder
	bufLen := 0
	fresh := true

	for _, p := range tc.pieces(text) {
		n := utf8.RuneCountInString(p.text)

		if !fresh && bufLen+len(p.joiner)+n > tc.maxChars {
			prev := buf.String()
			chunks = append(chunks, prev)
			buf.Reset()
			bufLen = 0

			if tail := overlapTail(prev, tc.overlap); tail != "" {
				tailLen := utf8.RuneCountInString(tail)
				if tailLen+len(p.joiner)+n <= tc.maxChars {
					buf.WriteString(tail)
					bufLen = tailLen
				}
			}
			fresh = true
		}

		if bufLen > 0 {
			buf.WriteString(p.joiner)
			bufLen += len(p.joiner)
		}
		buf.WriteString(p.text)
		bufLen += n
		fresh = false
	}

	if !fresh {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// pieces breaks text into units no longer than maxChars: whole paragraphs where they
// fit, otherwise sentences, otherwise word-bounded slices.
func (tc *textChunker) pieces(text string) []chunkPiece {
	var out []chunkPiece

	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= tc.maxChars {
			out = append(out, chunkPiece{text: para, joiner: "\n\n"})
			continue
		}

		joiner := "\n\n"
		for _, sentence := range splitIntoSentences(para) {
			for _, part := range splitLongText(sentence, tc.maxChars) {
				out = append(out, chunkPiece{text: part, joiner: joiner})
				joiner = " "
			}
		}
	}

	return out
}

// splitIntoSentences cuts after '.', '!' or '?' followed by whitespace, keeping the
// punctuation.
func splitIntoSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func splitLongText(text string, maxChars int) []string {
	var out []string
	runes := []rune(text)

	for len(runes) > maxChars {
		cut := maxChars
		for i := maxChars; i > maxChars/2; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimSpace(string(runes[:cut])))
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}

	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func overlapTail(chunk string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(chunk)
	if len(runes) <= n {
		return ""
	}

	tail := string(runes[len(runes)-n:])
	if idx := strings.IndexFunc(tail, unicode.IsSpace); idx >= 0 {
		tail = tail[idx:]
	}
	return strings.TrimSpace(tail)
}
