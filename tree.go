// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package psdict

import (
	"fmt"
	"unsafe"

	"github.com/prefixsum/psdict/internal/diag"
	"github.com/prefixsum/psdict/internal/leaf"
)

// LeafCap is the maximum number of values a single leaf can hold; a leaf
// that reaches it splits into two leaf children under a new internal node.
// It is a compile-time constant, the
// idiomatic Go equivalent of a build-time parameter.
const LeafCap = leaf.Cap

// nodeSize is the struct footprint charged to every internal node by
// [Tree.Alloc], computed once rather than hand-maintained alongside node's
// field list.
var nodeSize = uint64(unsafe.Sizeof(node{}))

// Tree is a dynamic succinct prefix-sum dictionary: a sequence of
// non-negative uint64 values supporting insert, in-place update, random
// access, prefix sum and prefix-sum inverse search.
//
// The zero value is not usable; construct one with [New]. A *Tree is not
// safe for concurrent use.
type Tree struct {
	root   *node
	length int
	total  uint64
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{root: newLeafNode()}
}

// Len returns the number of values in the sequence.
func (t *Tree) Len() int {
	return t.length
}

// Sum returns the sum of every value in the sequence.
func (t *Tree) Sum() uint64 {
	return t.total
}

func (t *Tree) checkIndex(i int) {
	if i < 0 || i >= t.length {
		panic(fmt.Sprintf("psdict: index %d out of range [0, %d)", i, t.length))
	}
}

// Get returns the value at position i. Precondition: 0 <= i < Len().
func (t *Tree) Get(i int) uint64 {
	t.checkIndex(i)
	return get(t.root, i)
}

// Insert adds v at position i, shifting every value at position >= i one
// slot to the right. Precondition: 0 <= i <= Len().
func (t *Tree) Insert(i int, v uint64) {
	if i < 0 || i > t.length {
		panic(fmt.Sprintf("psdict: insert index %d out of range [0, %d]", i, t.length))
	}
	t.root = insert(t.root, i, v)
	t.length++
	t.total += v
}

// Set overwrites the value at position i with v and returns the value that
// was previously stored there. Precondition: 0 <= i < Len().
func (t *Tree) Set(i int, v uint64) (old uint64) {
	t.checkIndex(i)
	old = set(t.root, i, v)
	t.total = t.total - old + v
	return old
}

// Increment adds delta to the value at position i in place.
// Precondition: 0 <= i < Len(); Get(i)+delta must not overflow a uint64.
func (t *Tree) Increment(i int, delta uint64) {
	t.checkIndex(i)
	if cur := get(t.root, i); cur > ^uint64(0)-delta {
		panic(fmt.Sprintf("psdict: increment at %d overflows 64 bits: %d + %d", i, cur, delta))
	}
	increment(t.root, i, delta)
	t.total += delta
}

// Decrement subtracts delta from the value at position i in place.
// Precondition: 0 <= i < Len(); delta <= Get(i).
func (t *Tree) Decrement(i int, delta uint64) {
	t.checkIndex(i)
	if cur := get(t.root, i); delta > cur {
		panic(fmt.Sprintf("psdict: decrement at %d below zero: %d - %d", i, cur, delta))
	}
	decrement(t.root, i, delta)
	t.total -= delta
}

// PrefixSum returns the sum of the first i values, i.e. Σ v[j] for j < i.
// Precondition: 0 <= i <= Len().
func (t *Tree) PrefixSum(i int) uint64 {
	if i < 0 || i > t.length {
		panic(fmt.Sprintf("psdict: prefix-sum index %d out of range [0, %d]", i, t.length))
	}
	return prefixSum(t.root, i)
}

// Find returns the smallest k such that PrefixSum(k+1) > target, i.e. the
// unique k with PrefixSum(k) <= target < PrefixSum(k+1). If target >=
// Sum(), Find returns Len() (one past the last value).
func (t *Tree) Find(target uint64) int {
	return find(t.root, target)
}

// Clear empties the tree, discarding every stored value.
func (t *Tree) Clear() {
	t.root = newLeafNode()
	t.length = 0
	t.total = 0
}

// Depth returns the maximum root-to-leaf depth of the tree, counting a
// single leaf node (no splits yet) as depth 1. Diagnostic only.
func (t *Tree) Depth() int {
	return depth(t.root)
}

// AllocStats reports the backing storage a tree currently occupies, broken
// down between bit-packed leaf storage and internal-node bookkeeping. It is
// an alias of [diag.Stats], the same accounting type the benchmark
// collaborator uses to compute its space-bound ratio.
type AllocStats = diag.Stats

// Alloc walks the tree and reports its current memory footprint.
func (t *Tree) Alloc() AllocStats {
	var stats AllocStats
	allocWalk(t.root, &stats)
	return stats
}
