// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "testing"

func TestMaxCountExactFraction(t *testing.T) {
	// 3/4 of 100 is 75, and 100*3 = 300 fits easily in 64 bits, so this
	// should be an exact, non-saturated result.
	if got, want := maxCount(100, 3, 2), uint64(75); got != want {
		t.Errorf("maxCount(100, 3, 2) = %d, want %d", got, want)
	}
}

func TestMaxCountAlphaLogDZero(t *testing.T) {
	if got, want := maxCount(1543, 1, 0), uint64(1543); got != want {
		t.Errorf("maxCount(1543, 1, 0) = %d, want %d", got, want)
	}
}

func TestMaxCountSaturatesOnOverflow(t *testing.T) {
	got := maxCount(^uint64(0), ^uint64(0), 0)
	if got != ^uint64(0) {
		t.Errorf("maxCount(max, max, 0) = %d, want saturated max", got)
	}
}

func TestMaxCountSaturatesWithShift(t *testing.T) {
	// modulus*alphaNum overflows 64 bits even before the shift is
	// applied, so the high half must carry bits above alphaLogD.
	got := maxCount(^uint64(0), 4, 1)
	if got != ^uint64(0) {
		t.Errorf("maxCount(max, 4, 1) = %d, want saturated max", got)
	}
}

func TestPow2(t *testing.T) {
	tests := []struct {
		k    uint
		want uint64
	}{
		{0, 1}, {1, 2}, {4, 16}, {16, 65536}, {63, 1 << 63},
	}
	for _, tc := range tests {
		if got := pow2(tc.k); got != tc.want {
			t.Errorf("pow2(%d) = %d, want %d", tc.k, got, tc.want)
		}
	}
}
