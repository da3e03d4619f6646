// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package psdict provides a dynamic succinct prefix-sum dictionary: a
// mutable sequence of non-negative integers supporting insert-at-position,
// in-place update (set/increment/decrement), random access, exclusive
// prefix sum and prefix-sum inverse search (find), all in close to
// information-theoretic space.
//
// The sequence is held as a binary tree of summary nodes over bit-packed
// leaves (package [github.com/prefixsum/psdict/internal/leaf]). Each leaf
// stores up to [LeafCap] values at a shared bit-width wide enough for its
// current contents; the width grows on demand and is brought back to the
// minimum only when the leaf splits. Each internal node stores only the
// size and sum of its left child, which is enough to route every operation without visiting
// more than one root-to-leaf path.
//
// A *Tree is not safe for concurrent use; callers needing concurrent
// access must serialize their own calls.
package psdict
