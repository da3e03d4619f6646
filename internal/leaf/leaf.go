// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package leaf implements the bit-packed value array that backs the leaves
// of the prefix-sum tree: up to [Cap] unsigned values stored at a shared,
// variable bit-width, laid out one plane per bit so that insert, sum and
// find can all operate on whole 64-bit words at a time instead of one
// value at a time.
package leaf

import "github.com/prefixsum/psdict/internal/bitops"

// Cap is the maximum number of values a single leaf can hold. It must be a
// power of two and a multiple of 64 so that [Blocks] divides evenly and a
// split always yields two exactly-half leaves.
const Cap = 256

// Blocks is the number of 64-value blocks per leaf.
const Blocks = Cap / 64

// Leaf is a bit-packed array of up to Cap values, each currently width
// bits wide. bits is laid out as Blocks*width words: bits[b*width+s] holds
// bit s of every value whose position falls in block b (positions
// 64*b..64*b+63), with position 64*b+o occupying bit o of that word.
//
// Only the low min(num-64*b, 64) bits of each block's words are
// meaningful; higher bits are always zero.
type Leaf struct {
	num   int
	width int
	bits  []uint64
}

// New returns an empty leaf.
func New() *Leaf {
	return &Leaf{}
}

// Num returns the number of values currently stored.
func (l *Leaf) Num() int {
	return l.num
}

// Width returns the current bit-width used to pack every stored value.
func (l *Leaf) Width() int {
	return l.width
}

// IsFull reports whether the leaf holds Cap values.
func (l *Leaf) IsFull() bool {
	return l.num == Cap
}

// Bytes returns the size in bytes of the leaf's backing bit matrix, for
// allocation accounting. It does not include the Leaf struct header itself.
func (l *Leaf) Bytes() int {
	return len(l.bits) * 8
}

// Clone returns a deep copy of l; mutating the result never affects l.
func (l *Leaf) Clone() *Leaf {
	c := &Leaf{num: l.num, width: l.width}
	if l.bits != nil {
		c.bits = make([]uint64, len(l.bits))
		copy(c.bits, l.bits)
	}
	return c
}

// split returns (block, offset) for position i.
func split(i int) (b, o int) {
	return i / 64, i % 64
}

// Get reconstructs the value stored at position i. i must be in [0, Num()).
func (l *Leaf) Get(i int) uint64 {
	if l.width == 0 {
		return 0
	}
	b, o := split(i)
	var v uint64
	base := b * l.width
	for s := 0; s < l.width; s++ {
		v |= bitops.Bit(l.bits[base+s], uint(o)) << uint(s)
	}
	return v
}

// rewiden grows the leaf to a new width w, preserving every stored value.
// w must be greater than the current width.
func (l *Leaf) rewiden(w int) {
	newBits := make([]uint64, Blocks*w)
	for b := 0; b < Blocks; b++ {
		copy(newBits[b*w:b*w+l.width], l.bits[b*l.width:(b+1)*l.width])
	}
	l.bits = newBits
	l.width = w
}

// Insert adds v at position i, shifting every value at position >= i one
// slot to the right. Precondition: 0 <= i <= Num() < Cap.
func (l *Leaf) Insert(i int, v uint64) {
	if w := bitops.BinLen(v); w > l.width {
		l.rewiden(w)
	}
	l.num++

	b, o := split(i)
	affected := (l.num + 63) / 64 // blocks touched by the shift, left to right

	width := l.width
	for s := 0; s < width; s++ {
		idx := b*width + s

		word := l.bits[idx]
		lowMask := bitops.Mask(uint(o))
		low := word & lowMask
		// bits at position >= o shift left by one; the bit that falls out
		// of the word is this block's carry into the next one.
		carryOut := bitops.Bit(word, 63)
		high := (word &^ lowMask) << 1
		l.bits[idx] = low | (bitops.Bit(v, uint(s)) << uint(o)) | high

		carry := carryOut
		for nb := b + 1; nb < affected; nb++ {
			nIdx := nb*width + s
			word := l.bits[nIdx]
			nextCarry := bitops.Bit(word, 63)
			l.bits[nIdx] = (word << 1) | carry
			carry = nextCarry
		}
	}
}

// Set overwrites the value at position i with v and returns the value that
// was previously stored there, so that a caller tracking a running sum can
// compute the signed delta without a separate read.
func (l *Leaf) Set(i int, v uint64) (old uint64) {
	old = l.Get(i)

	b, o := split(i)
	for s := 0; s < l.width; s++ {
		l.bits[b*l.width+s] &^= uint64(1) << uint(o)
	}

	if w := bitops.BinLen(v); w > l.width {
		l.rewiden(w)
	}
	for s := 0; s < bitops.BinLen(v); s++ {
		if bitops.Bit(v, uint(s)) == 1 {
			l.bits[b*l.width+s] |= uint64(1) << uint(o)
		}
	}
	return old
}

// Increment adds delta to the value at position i in place, widening the
// leaf one plane at a time if the addition overflows the current width.
func (l *Leaf) Increment(i int, delta uint64) {
	b, o := split(i)
	var carry uint64
	for s := 0; ; s++ {
		if delta>>uint(s) == 0 && carry == 0 {
			break
		}
		if s == l.width {
			l.rewiden(l.width + 1)
		}
		idx := b*l.width + s
		cur := bitops.Bit(l.bits[idx], uint(o))
		d := bitops.Bit(delta, uint(s))
		sum := cur + d + carry
		if sum&1 == 1 {
			l.bits[idx] |= uint64(1) << uint(o)
		} else {
			l.bits[idx] &^= uint64(1) << uint(o)
		}
		carry = sum >> 1
	}
}

// Decrement subtracts delta from the value at position i in place.
// Precondition: delta <= Get(i); the borrow then always vanishes within the
// existing width and the leaf never needs to widen.
func (l *Leaf) Decrement(i int, delta uint64) {
	b, o := split(i)
	negDelta := ^delta + 1 // two's complement of delta
	var carry uint64
	for s := 0; s < l.width; s++ {
		idx := b*l.width + s
		cur := bitops.Bit(l.bits[idx], uint(o))
		d := bitops.Bit(negDelta, uint(s))
		sum := cur + d + carry
		if sum&1 == 1 {
			l.bits[idx] |= uint64(1) << uint(o)
		} else {
			l.bits[idx] &^= uint64(1) << uint(o)
		}
		carry = sum >> 1
	}
}

// blockSum returns the sum of the values addressed by the low o bits of
// block b (o == 64 meaning the whole block).
func (l *Leaf) blockSum(b, o int) uint64 {
	var sum uint64
	mask := bitops.Mask(uint(o))
	base := b * l.width
	for s := 0; s < l.width; s++ {
		sum += uint64(bitops.PopCount(l.bits[base+s]&mask)) << uint(s)
	}
	return sum
}

// PrefixSum returns the sum of the first i values, i.e. Σ v[j] for j < i.
func (l *Leaf) PrefixSum(i int) uint64 {
	if i == 0 {
		return 0
	}
	b, o := split(i)
	var sum uint64
	for bb := 0; bb < b; bb++ {
		sum += l.blockSum(bb, 64)
	}
	sum += l.blockSum(b, o)
	return sum
}

// Sum returns the total of every value stored in the leaf.
func (l *Leaf) Sum() uint64 {
	return l.PrefixSum(l.num)
}

// swarSteps halves the remaining block range on each iteration, mirroring
// the hierarchical reduction levels ℓ=5..0 of a 64-wide block.
var swarSteps = [...]int{32, 16, 8, 4, 2, 1}

// Find returns the smallest k such that PrefixSum(k+1) > t, i.e. the unique
// k with PrefixSum(k) <= t < PrefixSum(k+1), for t < Sum(). At t == Sum()
// it returns Num() (one past the last value), matching find(sum()) in the
// scenario table.
//
// The search first walks blocks left to right, subtracting each block's
// full sum from t until the target block is found, then narrows the
// position within that block by repeatedly testing whether committing to
// the left half of the remaining range keeps the running sum at or below
// the target — the same commit-or-recurse-left rule as the bit-sliced SWAR
// descent, expressed here one candidate split at a time so every step is a
// plain, directly verifiable blockSum comparison.
func (l *Leaf) Find(t uint64) int {
	if t >= l.Sum() {
		return l.num
	}

	remaining := t
	lastBlock := 0
	if l.num > 0 {
		lastBlock = (l.num - 1) / 64
	}
	b := 0
	for b < lastBlock {
		bs := l.blockSum(b, 64)
		if remaining < bs {
			break
		}
		remaining -= bs
		b++
	}

	ind := 0
	for _, step := range swarSteps {
		cand := ind + step
		if l.blockSum(b, cand) <= remaining {
			ind = cand
		}
	}

	// Equality edge: the bit-sliced SWAR descent needs one more check for a
	// position sitting exactly at a power-of-two boundary. The descent above
	// commits whenever the running sum stays at or below the target, so it
	// already lands on that position and this check does not advance ind
	// for any t < Sum().
	if l.blockSum(b, ind)+l.Get(b*64+ind) <= remaining {
		ind++
	}

	return b*64 + ind
}

// Split moves the second half of a full leaf (precondition: IsFull()) into
// other (precondition: other is empty), repacking each half at the minimal
// width its own values require. After Split, l.Num() == other.Num() ==
// Cap/2.
func (l *Leaf) Split(other *Leaf) {
	half := Blocks / 2
	halfLen := half * 64

	var max1, max2 uint64
	for i := 0; i < halfLen; i++ {
		if v := l.Get(i); v > max1 {
			max1 = v
		}
	}
	for i := halfLen; i < Cap; i++ {
		if v := l.Get(i); v > max2 {
			max2 = v
		}
	}
	w1, w2 := bitops.BinLen(max1), bitops.BinLen(max2)

	// Both halves keep the full Blocks*width layout, matching rewiden's
	// convention, so later Inserts can shift into blocks beyond the ones
	// currently occupied without a reallocation.
	newSelf := make([]uint64, Blocks*w1)
	for i := 0; i < halfLen; i++ {
		v := l.Get(i)
		b, o := split(i)
		for s := 0; s < w1; s++ {
			if bitops.Bit(v, uint(s)) == 1 {
				newSelf[b*w1+s] |= uint64(1) << uint(o)
			}
		}
	}

	newOther := make([]uint64, Blocks*w2)
	for i := halfLen; i < Cap; i++ {
		v := l.Get(i)
		b, o := split(i - halfLen)
		for s := 0; s < w2; s++ {
			if bitops.Bit(v, uint(s)) == 1 {
				newOther[b*w2+s] |= uint64(1) << uint(o)
			}
		}
	}

	l.bits = newSelf
	l.width = w1
	l.num = halfLen

	other.bits = newOther
	other.width = w2
	other.num = halfLen
}
