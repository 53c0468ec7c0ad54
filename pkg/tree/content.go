package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Content is the payload carried by every node in a [Tree]. Implementations
// pair a canonical value with a textual form that survives a round trip
// through the tree's parse function.
type Content interface {
	// Value returns the canonical payload. Sibling lookup, duplicate
	// detection, and [Tree.FindPath] all match against this string, which
	// need not equal the raw text the content was parsed from.
	Value() string

	// Serialize returns the textual form of the content. Feeding the result
	// back through the parse function that produced the content must yield
	// an equal content value.
	Serialize() string
}

// ParseFunc converts raw text into content of type C. A tree calls its parse
// function on every [Tree.SetRoot], [Tree.Link], and [Tree.UpdateContent];
// returning an error rejects the operation without mutating the tree.
//
// Parse functions define the content dialect: what inputs are legal and how
// they decompose into a value. [ParseRaw] and [ParseWeighted] are the two
// built-in dialects.
type ParseFunc[C Content] func(raw string) (C, error)

// RawContent stores node text verbatim: the value, the serialized form, and
// the original input are all the same string.
type RawContent struct {
	val string
}

// Value returns the stored text.
func (c RawContent) Value() string { return c.val }

// Serialize returns the stored text unchanged.
func (c RawContent) Serialize() string { return c.val }

// ParseRaw builds [RawContent] from any input, including the empty string.
// It never fails.
func ParseRaw(raw string) (RawContent, error) {
	return RawContent{val: raw}, nil
}

// WeightedContent carries an unsigned weight alongside its text, serialized
// as "<weight>:<text>". Only the text participates in sibling lookup and
// path matching; the weight rides along as payload.
type WeightedContent struct {
	weight uint
	text   string
}

// NewWeightedContent builds weighted content directly, bypassing the parse
// step. Useful in tests and when the weight is computed rather than read.
func NewWeightedContent(weight uint, text string) WeightedContent {
	return WeightedContent{weight: weight, text: text}
}

// Weight returns the numeric component.
func (c WeightedContent) Weight() uint { return c.weight }

// Value returns the text component. The weight is deliberately excluded so
// that nodes keep their identity when only the weight changes.
func (c WeightedContent) Value() string { return c.text }

// Serialize returns the canonical "<weight>:<text>" form.
func (c WeightedContent) Serialize() string {
	return strconv.FormatUint(uint64(c.weight), 10) + ":" + c.text
}

// ParseWeighted parses the "<weight>:<text>" dialect. The input must contain
// exactly one ':' separator and the weight must be an unsigned decimal;
// anything else fails.
func ParseWeighted(raw string) (WeightedContent, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return WeightedContent{}, fmt.Errorf("want exactly one ':' separator in %q", raw)
	}
	w, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return WeightedContent{}, fmt.Errorf("weight %q: %w", parts[0], err)
	}
	return WeightedContent{weight: uint(w), text: parts[1]}, nil
}
