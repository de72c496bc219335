// Package xiterseq adapts a stateful step function into a go1.23
// iter.Seq, the same convenience-iterator idiom flier-goutil's
// pkg/xiter applies to slices and maps, here applied to kdtree's
// pull-based cursor iterators instead.
package xiterseq

import "iter"

// FromStep builds an iter.Seq[T] that repeatedly calls next until it
// reports done, yielding each value in turn and stopping early if the
// consumer's yield returns false.
func FromStep[T any](next func() (value T, ok bool)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// FromStep2 is FromStep for two-valued sequences (e.g. key/value pairs).
func FromStep2[K, V any](next func() (key K, value V, ok bool)) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := next()
			if !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}
