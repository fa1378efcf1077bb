package model

import (
	"iter"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Array is an immutable ordered sequence whose equality is defined by its
// elements. Elements must either provide an Equal method or be comparable.
type Array[T any] struct {
	items []T
}

// NewArray copies items into a new Array.
func NewArray[T any](items ...T) Array[T] {
	if len(items) == 0 {
		return Array[T]{}
	}

	return Array[T]{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (a Array[T]) Len() int {
	return len(a.items)
}

// IsEmpty returns true if the array has no elements.
func (a Array[T]) IsEmpty() bool {
	return len(a.items) == 0
}

// At returns the i-th element.
func (a Array[T]) At(i int) T {
	return a.items[i]
}

// All iterates over index and element pairs.
func (a Array[T]) All() iter.Seq2[int, T] {
	return slices.All(a.items)
}

// Values iterates over the elements in order.
func (a Array[T]) Values() iter.Seq[T] {
	return slices.Values(a.items)
}

// Slice returns a copy of the elements.
func (a Array[T]) Slice() []T {
	return slices.Clone(a.items)
}

// Equal compares two arrays element by element.
func (a Array[T]) Equal(other Array[T]) bool {
	if len(a.items) != len(other.items) {
		return false
	}

	for i := range a.items {
		if !itemsEqual(a.items[i], other.items[i]) {
			return false
		}
	}

	return true
}

// EncodeMsgpack writes the elements as a msgpack array.
func (a Array[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(len(a.items)); err != nil {
		return err
	}

	for i := range a.items {
		if err := enc.Encode(a.items[i]); err != nil {
			return err
		}
	}

	return nil
}

type equaler[T any] interface {
	Equal(other T) bool
}

func itemsEqual[T any](x, y T) bool {
	if e, ok := any(x).(equaler[T]); ok {
		return e.Equal(y)
	}

	return any(x) == any(y)
}
