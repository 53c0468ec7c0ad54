// Package forest keys independent trees by parsed identifiers.
//
// A [Forest] is a registry: it owns a set of [tree.Tree] instances, each
// stored under a key of any comparable type. Identifiers arrive as text and
// go through a [ParseID] function before touching the map, so malformed ids
// are rejected uniformly across every operation. [Name] and [UID] are the
// two built-in identifier kinds; any comparable type with a parse function
// works.
//
// Like the trees it holds, a Forest is not safe for concurrent use without
// external synchronization.
package forest

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/grovekit/grove/pkg/tree"
)

var (
	// ErrTreeExists is returned by [Forest.Create] and [Forest.Add] when the
	// key is already taken. Keys are unique per forest.
	ErrTreeExists = errors.New("tree id already exists")

	// ErrTreeNotFound is returned by [Forest.Get] and [Forest.Remove] when
	// no tree is stored under the key.
	ErrTreeNotFound = errors.New("tree not found")

	// ErrIDParse is returned by any forest operation when the id text does
	// not parse. The parse error is wrapped alongside it.
	ErrIDParse = errors.New("tree id did not parse")
)

// ParseID converts identifier text into a key of type K. Returning an error
// rejects the operation; the forest is never touched with an unparsed key.
type ParseID[K comparable] func(text string) (K, error)

// Name is the plain string identifier. Any non-empty text parses.
type Name string

// ParseName builds a [Name], rejecting only the empty string.
func ParseName(text string) (Name, error) {
	if text == "" {
		return "", errors.New("name must not be empty")
	}
	return Name(text), nil
}

// UID is a UUID-valued identifier for forests whose tree ids arrive from
// external systems. Text must be a valid UUID in any form uuid.Parse
// accepts; the canonical form is used as the key.
type UID struct {
	uuid.UUID
}

// ParseUID parses identifier text as a UUID.
func ParseUID(text string) (UID, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return UID{}, err
	}
	return UID{UUID: id}, nil
}

// Forest is a keyed collection of trees sharing one identifier dialect and
// one content dialect. The zero value is not usable - construct forests
// with [New], [NewNamed], or [NewRaw].
type Forest[K comparable, C tree.Content] struct {
	parseID ParseID[K]
	parse   tree.ParseFunc[C]
	trees   map[K]*tree.Tree[C]
}

// New creates an empty forest. parseID defines the identifier dialect;
// parse defines the content dialect of every tree the forest creates.
func New[K comparable, C tree.Content](parseID ParseID[K], parse tree.ParseFunc[C]) *Forest[K, C] {
	return &Forest[K, C]{
		parseID: parseID,
		parse:   parse,
		trees:   make(map[K]*tree.Tree[C]),
	}
}

// NewNamed creates a forest of name-keyed trees over the given content
// dialect.
func NewNamed[C tree.Content](parse tree.ParseFunc[C]) *Forest[Name, C] {
	return New(ParseName, parse)
}

// NewRaw creates a forest of name-keyed trees over [tree.RawContent], the
// most common pairing.
func NewRaw() *Forest[Name, tree.RawContent] {
	return New(ParseName, tree.ParseRaw)
}

// Create parses idText, builds an empty tree with the forest's content
// dialect, and stores it under the key. Returns ErrIDParse (wrapping the
// cause) on malformed text or ErrTreeExists if the key is taken.
func (f *Forest[K, C]) Create(idText string) (K, error) {
	id, err := f.key(idText)
	if err != nil {
		return id, err
	}
	if _, taken := f.trees[id]; taken {
		return id, fmt.Errorf("%w: %q", ErrTreeExists, idText)
	}
	f.trees[id] = tree.New(f.parse)
	return id, nil
}

// Add parses idText and stores a caller-built tree under the key. The forest
// takes ownership of the tree. Returns ErrIDParse (wrapping the cause) on
// malformed text or ErrTreeExists if the key is taken.
func (f *Forest[K, C]) Add(idText string, t *tree.Tree[C]) (K, error) {
	id, err := f.key(idText)
	if err != nil {
		return id, err
	}
	if _, taken := f.trees[id]; taken {
		return id, fmt.Errorf("%w: %q", ErrTreeExists, idText)
	}
	f.trees[id] = t
	return id, nil
}

// Remove parses idText, detaches the tree stored under the key, and returns
// it with ownership. Returns ErrIDParse (wrapping the cause) or
// ErrTreeNotFound.
func (f *Forest[K, C]) Remove(idText string) (*tree.Tree[C], error) {
	id, err := f.key(idText)
	if err != nil {
		return nil, err
	}
	t, ok := f.trees[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTreeNotFound, idText)
	}
	delete(f.trees, id)
	return t, nil
}

// Get parses idText and returns the tree stored under the key. The tree is
// shared, not copied; mutations through it are visible to every holder.
// Returns ErrIDParse (wrapping the cause) or ErrTreeNotFound.
func (f *Forest[K, C]) Get(idText string) (*tree.Tree[C], error) {
	id, err := f.key(idText)
	if err != nil {
		return nil, err
	}
	t, ok := f.trees[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTreeNotFound, idText)
	}
	return t, nil
}

// GetByKey returns the tree stored under an already-parsed key, bypassing
// the text parse. Useful when keys come out of [Forest.All].
func (f *Forest[K, C]) GetByKey(id K) (*tree.Tree[C], bool) {
	t, ok := f.trees[id]
	return t, ok
}

// All returns an iterator over every key and tree in the forest. The order
// is not specified. Adding or removing trees during iteration is undefined;
// mutating the yielded trees is fine.
func (f *Forest[K, C]) All() iter.Seq2[K, *tree.Tree[C]] {
	return func(yield func(K, *tree.Tree[C]) bool) {
		for id, t := range f.trees {
			if !yield(id, t) {
				return
			}
		}
	}
}

// Len returns the number of trees in the forest.
func (f *Forest[K, C]) Len() int { return len(f.trees) }

func (f *Forest[K, C]) key(idText string) (K, error) {
	id, err := f.parseID(idText)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrIDParse, err)
	}
	return id, nil
}
