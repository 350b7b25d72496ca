// Package chunker splits normalised document segments into overlapping,
// size-bounded chunks suitable for embedding.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

// DefaultChunkSize is the default chunk length threshold in characters.
const DefaultChunkSize = 1200

// DefaultOverlap is the default number of trailing characters carried
// over into the next chunk.
const DefaultOverlap = 200

// Chunker accumulates segment words into chunks. Heading segments start
// a fresh chunk so downstream consumers can anchor context to sections.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk length threshold in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the carry-over length in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a Chunker with the given options.
// A chunk size of zero or less is rejected; a negative overlap is
// treated as zero.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be greater than zero", domain.ErrInvalidInput)
	}
	if c.overlap < 0 {
		c.overlap = 0
	}

	return c, nil
}

// accumulator is the fold state threaded through one Split call.
type accumulator struct {
	words   []string
	joined  int // length of words joined with single spaces
	heading *domain.Heading
	chunks  []domain.Chunk
}

// Split walks the segments in order and emits chunks. Ordering indices
// are dense and zero-based: they advance only when a chunk is emitted,
// so whitespace-only content never leaves a gap. The size check runs
// after every word insertion, which means a chunk may exceed the
// threshold by at most one word before it is flushed.
func (c *Chunker) Split(segments []domain.Segment) []domain.Chunk {
	acc := &accumulator{}

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if seg.Heading != nil {
			// Finish the current chunk to avoid mixing heading contexts.
			c.flush(acc)
			acc.heading = seg.Heading
			acc.reset()
		}

		for _, word := range strings.Fields(text) {
			acc.push(word)
			if acc.joined >= c.chunkSize {
				c.flush(acc)
			}
		}
	}

	c.flush(acc)

	return acc.chunks
}

// flush emits the buffered words as one chunk. An empty buffer is a
// no-op; a buffer that trims to nothing is discarded without emitting
// and without advancing the ordering index. With a positive overlap the
// new buffer is seeded with the tail of the emitted content.
func (c *Chunker) flush(acc *accumulator) {
	if len(acc.words) == 0 {
		return
	}

	content := strings.TrimSpace(strings.Join(acc.words, " "))
	if content == "" {
		acc.reset()
		return
	}

	acc.chunks = append(acc.chunks, domain.Chunk{
		Content:  content,
		Ordering: len(acc.chunks),
		Heading:  acc.heading,
	})

	if c.overlap > 0 {
		acc.seed(overlapTail(content, c.overlap))
	} else {
		acc.reset()
	}
}

func (a *accumulator) push(word string) {
	if len(a.words) > 0 {
		a.joined++
	}
	a.words = append(a.words, word)
	a.joined += len(word)
}

func (a *accumulator) reset() {
	a.words = nil
	a.joined = 0
}

func (a *accumulator) seed(tail string) {
	a.reset()
	for _, word := range strings.Fields(tail) {
		a.push(word)
	}
}

// overlapTail returns up to n trailing characters of content without
// splitting a UTF-8 sequence.
func overlapTail(content string, n int) string {
	if len(content) <= n {
		return content
	}
	off := len(content) - n
	for off < len(content) && !utf8.RuneStart(content[off]) {
		off++
	}
	return content[off:]
}
