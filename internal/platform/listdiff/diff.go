// Package listdiff computes keyed edit scripts between two ordered sequences.
//
// Items are matched by key. Matched items whose content differs produce an
// Update rather than a Remove/Insert pair. Among matched items, the longest
// run already in the right relative order stays put and every other matched
// item is moved exactly once.
package listdiff

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

type Kind int

const (
	Remove Kind = iota
	Move
	Insert
	Update
)

func (k Kind) String() string {
	switch k {
	case Remove:
		return "remove"
	case Move:
		return "move"
	case Insert:
		return "insert"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op is one step of an edit script. Ops must be applied in order; each index
// refers to the sequence as it stands after the previous ops.
//
// Remove and Insert address Index. Move takes the item at From out and puts it
// back at Index (counted after the removal). Update replaces the item at Index.
type Op[T any] struct {
	Kind  Kind
	Index int
	From  int
	Item  T
}

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrOutOfRange   = errors.New("op index out of range")
)

// Diff returns the ops that turn old into next. Ops come grouped: removals
// (highest index first), moves, inserts (lowest index first), updates.
func Diff[T any, K comparable](old, next []T, key func(T) K, equal func(a, b T) bool) ([]Op[T], error) {
	oldIdx, err := positions(old, key)
	if err != nil {
		return nil, fmt.Errorf("old sequence: %w", err)
	}
	newIdx, err := positions(next, key)
	if err != nil {
		return nil, fmt.Errorf("new sequence: %w", err)
	}

	var ops []Op[T]
	for i := len(old) - 1; i >= 0; i-- {
		if _, ok := newIdx[key(old[i])]; !ok {
			ops = append(ops, Op[T]{Kind: Remove, Index: i})
		}
	}

	work := make([]K, 0, len(old))
	targets := make([]int, 0, len(old))
	for _, item := range old {
		k := key(item)
		if pos, ok := newIdx[k]; ok {
			work = append(work, k)
			targets = append(targets, pos)
		}
	}
	stable := make(map[K]bool, len(work))
	for i, keep := range longestIncreasing(targets) {
		if keep {
			stable[work[i]] = true
		}
	}

	// Each unstable survivor goes right after its predecessor in the new order.
	// Processing in new order keeps every earlier placement adjacent.
	var prev K
	hasPrev := false
	for _, item := range next {
		k := key(item)
		if _, ok := oldIdx[k]; !ok {
			continue
		}
		if !stable[k] {
			from := slices.Index(work, k)
			work = slices.Delete(work, from, from+1)
			to := 0
			if hasPrev {
				to = slices.Index(work, prev) + 1
			}
			work = slices.Insert(work, to, k)
			if from != to {
				ops = append(ops, Op[T]{Kind: Move, From: from, Index: to})
			}
		}
		prev, hasPrev = k, true
	}

	for i, item := range next {
		if _, ok := oldIdx[key(item)]; !ok {
			ops = append(ops, Op[T]{Kind: Insert, Index: i, Item: item})
		}
	}
	for i, item := range next {
		if j, ok := oldIdx[key(item)]; ok && !equal(old[j], item) {
			ops = append(ops, Op[T]{Kind: Update, Index: i, Item: item})
		}
	}
	return ops, nil
}

// Apply replays ops on a copy of items.
func Apply[T any](items []T, ops []Op[T]) ([]T, error) {
	out := slices.Clone(items)
	for n, op := range ops {
		switch op.Kind {
		case Remove:
			if op.Index < 0 || op.Index >= len(out) {
				return nil, fmt.Errorf("op %d remove %d of %d: %w", n, op.Index, len(out), ErrOutOfRange)
			}
			out = slices.Delete(out, op.Index, op.Index+1)
		case Move:
			if op.From < 0 || op.From >= len(out) || op.Index < 0 || op.Index >= len(out) {
				return nil, fmt.Errorf("op %d move %d->%d of %d: %w", n, op.From, op.Index, len(out), ErrOutOfRange)
			}
			item := out[op.From]
			out = slices.Delete(out, op.From, op.From+1)
			out = slices.Insert(out, op.Index, item)
		case Insert:
			if op.Index < 0 || op.Index > len(out) {
				return nil, fmt.Errorf("op %d insert %d of %d: %w", n, op.Index, len(out), ErrOutOfRange)
			}
			out = slices.Insert(out, op.Index, op.Item)
		case Update:
			if op.Index < 0 || op.Index >= len(out) {
				return nil, fmt.Errorf("op %d update %d of %d: %w", n, op.Index, len(out), ErrOutOfRange)
			}
			out[op.Index] = op.Item
		default:
			return nil, fmt.Errorf("op %d: unknown %s", n, op.Kind)
		}
	}
	return out, nil
}

func positions[T any, K comparable](items []T, key func(T) K) (map[K]int, error) {
	out := make(map[K]int, len(items))
	for i, item := range items {
		k := key(item)
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		out[k] = i
	}
	return out, nil
}

// longestIncreasing marks one longest strictly increasing subsequence of seq
// (patience sorting).
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		j := sort.Search(len(tails), func(j int) bool { return seq[tails[j]] >= v })
		prev[i] = -1
		if j > 0 {
			prev[i] = tails[j-1]
		}
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
