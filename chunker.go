package relay

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkChars is the default maximum chunk size in characters.
const DefaultChunkChars = 100000

const (
	paragraphSeparator = "\n\n"
	codeFence          = "```"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// SplitChunks splits text into chunks of at most maxChars characters, cutting only at paragraph
// boundaries that are outside fenced code blocks. A paragraph longer than maxChars becomes its own
// chunk. Empty input yields no chunks.
func SplitChunks(text string, maxChars int) []Chunk {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultChunkChars
	}

	paragraphs := paragraphBreak.Split(text, -1)

	var (
		chunks  []Chunk
		current strings.Builder
		size    int // runes in current
		started bool
		inFence bool
	)

	flush := func() {
		chunks = append(chunks, Chunk{Index: len(chunks), Text: current.String()})
		current.Reset()
		size = 0
		started = false
	}

	sepLen := utf8.RuneCountInString(paragraphSeparator)
	for _, p := range paragraphs {
		pLen := utf8.RuneCountInString(p)
		if started && !inFence && size > 0 && size+sepLen+pLen > maxChars {
			flush()
		}

		if started {
			current.WriteString(paragraphSeparator)
			size += sepLen
		}
		current.WriteString(p)
		size += pLen
		started = true

		if strings.Count(p, codeFence)%2 == 1 {
			inFence = !inFence
		}
	}

	if started {
		flush()
	}

	return chunks
}

// JoinChunks reassembles chunk texts in index order.
func JoinChunks(chunks []Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, paragraphSeparator)
}
