// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package psdict

import "github.com/prefixsum/psdict/internal/leaf"

// node is either a leaf node (leaf != nil, left == right == nil) or an
// internal node (leaf == nil, left and right both non-nil). An internal
// node stores only the size and sum of its left child; the right child's
// size and sum are never cached, since every routing decision needs only
// the left half to decide which way to go.
type node struct {
	l *leaf.Leaf

	left, right *node
	leftSize    int
	leftSum     uint64
}

func newLeafNode() *node {
	return &node{l: leaf.New()}
}

func (n *node) isLeaf() bool {
	return n.l != nil
}

// splitLeaf turns a full leaf node into an internal node with two half-full
// leaf children. n's leaf, now holding the first half, is reused in a new
// left node; n itself is dropped and the caller stores the returned
// internal node in its place.
func splitLeaf(n *node) *node {
	other := leaf.New()
	n.l.Split(other)

	left := &node{l: n.l}
	right := &node{l: other}
	return &node{
		left:     left,
		right:    right,
		leftSize: left.l.Num(),
		leftSum:  left.l.Sum(),
	}
}

// insert returns the (possibly new, if a split occurred) node for this
// subtree after inserting v at position i. Precondition: 0 <= i <= size of
// the subtree rooted at n.
func insert(n *node, i int, v uint64) *node {
	if n.isLeaf() {
		n.l.Insert(i, v)
		if n.l.IsFull() {
			return splitLeaf(n)
		}
		return n
	}

	if i < n.leftSize {
		n.left = insert(n.left, i, v)
		n.leftSize++
		n.leftSum += v
	} else {
		n.right = insert(n.right, i-n.leftSize, v)
	}
	return n
}

func get(n *node, i int) uint64 {
	if n.isLeaf() {
		return n.l.Get(i)
	}
	if i < n.leftSize {
		return get(n.left, i)
	}
	return get(n.right, i-n.leftSize)
}

// set overwrites the value at position i and returns the value it
// replaced, propagating the sum delta up through leftSum on the way back.
func set(n *node, i int, v uint64) (old uint64) {
	if n.isLeaf() {
		return n.l.Set(i, v)
	}
	if i < n.leftSize {
		old = set(n.left, i, v)
		n.leftSum = n.leftSum - old + v
	} else {
		old = set(n.right, i-n.leftSize, v)
	}
	return old
}

func increment(n *node, i int, delta uint64) {
	if n.isLeaf() {
		n.l.Increment(i, delta)
		return
	}
	if i < n.leftSize {
		increment(n.left, i, delta)
		n.leftSum += delta
	} else {
		increment(n.right, i-n.leftSize, delta)
	}
}

func decrement(n *node, i int, delta uint64) {
	if n.isLeaf() {
		n.l.Decrement(i, delta)
		return
	}
	if i < n.leftSize {
		decrement(n.left, i, delta)
		n.leftSum -= delta
	} else {
		decrement(n.right, i-n.leftSize, delta)
	}
}

// prefixSum returns the sum of the first i values of the subtree rooted at
// n. Precondition: 0 <= i <= size of the subtree.
func prefixSum(n *node, i int) uint64 {
	if n.isLeaf() {
		return n.l.PrefixSum(i)
	}
	if i <= n.leftSize {
		return prefixSum(n.left, i)
	}
	return n.leftSum + prefixSum(n.right, i-n.leftSize)
}

// find returns the smallest k such that prefixSum(n, k+1) > t, routing by
// running sum rather than position. When t lands at or past the subtree's
// total, the recursion bottoms out in the rightmost leaf's own t >= Sum()
// edge, which returns that leaf's Num() — composed with the leftSize
// carried on the way down, this yields the subtree's total size, exactly
// the "one past the last value" convention used throughout.
func find(n *node, t uint64) int {
	if n.isLeaf() {
		return n.l.Find(t)
	}
	if t < n.leftSum {
		return find(n.left, t)
	}
	return n.leftSize + find(n.right, t-n.leftSum)
}

func depth(n *node) int {
	if n.isLeaf() {
		return 1
	}
	dl, dr := depth(n.left), depth(n.right)
	if dl > dr {
		return dl + 1
	}
	return dr + 1
}

func allocWalk(n *node, stats *AllocStats) {
	if n.isLeaf() {
		stats.AddLeaf(n.l.Bytes())
		return
	}
	stats.AddInternal(nodeSize)
	allocWalk(n.left, stats)
	allocWalk(n.right, stats)
}
