// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package leaf

import "testing"

func TestLeaf_InsertGet(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 2)
	l.Insert(1, 4)
	l.Insert(2, 1)

	want := []uint64{2, 4, 1}
	for i, w := range want {
		if got := l.Get(i); got != w {
			t.Errorf("Get(%d) = %d, want %d", i, got, w)
		}
	}
	if l.Num() != 3 {
		t.Errorf("Num() = %d, want 3", l.Num())
	}
}

func TestLeaf_InsertOrdering(t *testing.T) {
	t.Parallel()

	// S3: wide values force width growth, insertion shifts existing values.
	l := New()
	l.Insert(0, 100)
	l.Insert(1, 1000)
	l.Insert(2, 10000)
	l.Insert(1, 77777)

	want := []uint64{100, 77777, 1000, 10000}
	for i, w := range want {
		if got := l.Get(i); got != w {
			t.Errorf("Get(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestLeaf_PrefixSum(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 2)
	l.Insert(1, 4)
	l.Insert(2, 1)

	wantPrefix := []uint64{0, 2, 6, 7}
	for i, w := range wantPrefix {
		if got := l.PrefixSum(i); got != w {
			t.Errorf("PrefixSum(%d) = %d, want %d", i, got, w)
		}
	}
	if got := l.Sum(); got != 7 {
		t.Errorf("Sum() = %d, want 7", got)
	}
}

func TestLeaf_Find(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 2)
	l.Insert(1, 4)
	l.Insert(2, 1)

	tests := []struct {
		t    uint64
		want int
	}{
		{0, 0}, {1, 0},
		{2, 1}, {3, 1}, {4, 1}, {5, 1},
		{6, 2},
		{7, 3}, // per S2: find(sum()) lands one past the last value
	}
	for _, tc := range tests {
		if got := l.Find(tc.t); got != tc.want {
			t.Errorf("Find(%d) = %d, want %d", tc.t, got, tc.want)
		}
	}
}

func TestLeaf_SetReturnsOldValue(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 10)
	if old := l.Set(0, 25); old != 10 {
		t.Errorf("Set(0, 25) returned old=%d, want 10", old)
	}
	if got := l.Get(0); got != 25 {
		t.Errorf("Get(0) = %d, want 25", got)
	}
}

func TestLeaf_IncrementDecrementSymmetry(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 5)
	l.Increment(0, 123456789)
	l.Decrement(0, 123456789)
	if got := l.Get(0); got != 5 {
		t.Errorf("Get(0) after increment/decrement round trip = %d, want 5", got)
	}
}

func TestLeaf_Decrement(t *testing.T) {
	t.Parallel()

	// S4.
	l := New()
	l.Insert(0, 888)
	l.Insert(0, 100)
	l.Decrement(0, 77)
	if got := l.Get(0); got != 23 {
		t.Errorf("Get(0) = %d, want 23", got)
	}
	l.Decrement(1, 777)
	if got := l.Get(1); got != 111 {
		t.Errorf("Get(1) = %d, want 111", got)
	}
}

func TestLeaf_IncrementWidensWidth(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 1)
	before := l.Width()
	l.Increment(0, ^uint64(0)-1) // push the value past the current width
	if l.Width() <= before {
		t.Errorf("Width() = %d, want > %d after overflow-forcing increment", l.Width(), before)
	}
	if got := l.Get(0); got != ^uint64(0) {
		t.Errorf("Get(0) = %d, want %d", got, ^uint64(0))
	}
}

func TestLeaf_SplitPreservesContent(t *testing.T) {
	t.Parallel()

	l := New()
	for i := 0; i < Cap; i++ {
		l.Insert(i, uint64(i))
	}
	if !l.IsFull() {
		t.Fatal("leaf should be full")
	}

	var before [Cap]uint64
	for i := range before {
		before[i] = l.Get(i)
	}

	other := New()
	l.Split(other)

	if l.Num() != Cap/2 || other.Num() != Cap/2 {
		t.Fatalf("Split halves: l.Num()=%d other.Num()=%d, want %d each", l.Num(), other.Num(), Cap/2)
	}

	for i := 0; i < Cap/2; i++ {
		if got := l.Get(i); got != before[i] {
			t.Errorf("l.Get(%d) = %d, want %d", i, got, before[i])
		}
	}
	for i := 0; i < Cap/2; i++ {
		if got := other.Get(i); got != before[Cap/2+i] {
			t.Errorf("other.Get(%d) = %d, want %d", i, got, before[Cap/2+i])
		}
	}
}

func TestLeaf_CloneIndependence(t *testing.T) {
	t.Parallel()

	l := New()
	l.Insert(0, 42)

	c := l.Clone()
	c.Set(0, 99)

	if got := l.Get(0); got != 42 {
		t.Errorf("original leaf mutated via clone: Get(0) = %d, want 42", got)
	}
	if got := c.Get(0); got != 99 {
		t.Errorf("Clone Get(0) = %d, want 99", got)
	}
}

func TestLeaf_LargeRandomRoundTrip(t *testing.T) {
	t.Parallel()

	const n = 200
	l := New()
	for i := 0; i < n; i++ {
		l.Insert(i, 0)
	}

	values := make([]uint64, n)
	seed := uint64(12345)
	for i := range values {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := seed >> 32 & 0xFFFFFFFF
		values[i] = v
		l.Set(i, v)
	}

	prefix := make([]uint64, n+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	for i := 0; i <= n; i++ {
		if got := l.PrefixSum(i); got != prefix[i] {
			t.Fatalf("PrefixSum(%d) = %d, want %d", i, got, prefix[i])
		}
	}

	for k := 0; k < n; k++ {
		for _, tgt := range []uint64{prefix[k], prefix[k+1] - 1} {
			if prefix[k] > tgt || tgt >= prefix[k+1] {
				continue
			}
			if got := l.Find(tgt); got != k {
				t.Fatalf("Find(%d) = %d, want %d (prefix[%d]=%d, prefix[%d]=%d)", tgt, got, k, k, prefix[k], k+1, prefix[k+1])
			}
		}
	}
}
