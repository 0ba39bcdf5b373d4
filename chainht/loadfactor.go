// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "math/bits"

// Component C2: integer load-factor arithmetic. maxCount computes
// floor(modulus * alphaNum / 2^alphaLogD), saturating at the machine
// word's maximum value, entirely in integer arithmetic so behaviour
// never depends on float rounding in the hot path.
//
// The full-width product of modulus*alphaNum is produced with
// math/bits.Mul64 (the Go-native equivalent of the mul_ext contract in
// spec.md §6: a single hardware-width multiply split into high/low
// halves). The low half is shifted right by alphaLogD, the high half is
// shifted left by (64 - alphaLogD) and added in; if any bit of the high
// half survives above bit alphaLogD, the true result doesn't fit in a
// word and the saturated word-max is returned instead.
func maxCount(modulus, alphaNum uint64, alphaLogD uint) uint64 {
	high, low := bits.Mul64(modulus, alphaNum)
	if alphaLogD == 0 {
		if high != 0 {
			return ^uint64(0)
		}
		return low
	}
	if high>>alphaLogD != 0 {
		return ^uint64(0)
	}
	result := (low >> alphaLogD) | (high << (64 - alphaLogD))
	return result
}

// pow2 returns 1<<k for 0 <= k < 64. It is the Go-native equivalent of
// the pow_two contract in spec.md §6. pow2 does not check k: for k >= 64
// it returns 0, and nothing in the package routes an out-of-range k to
// the abort handler.
func pow2(k uint) uint64 {
	return uint64(1) << k
}
