// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

// Component C1: the prime ladder. The modulus of the table is always
// drawn from this fixed, increasing sequence of primes. The rungs from
// 1543 through 3221225473, and the 3*2^60+5 rung, sit close to 1.5 times
// a power of two, away from the neighbouring powers of two. 65521 and
// the other rungs from 4294967291 upward are the largest primes below
// successive powers of two, so they sit close to a power of two.
//
// The ladder is partitioned into four groups; group g holds primes
// reconstructed from g+1 half-word (16-bit) parts, OR-ed together at bit
// offsets {0, 16, 32, 48}. Group 0 primes fit in 16 bits, group 1 in 32,
// group 2 in 48, group 3 in the full 64-bit machine word.

const halfWordBits = 16

// ladderStatus is the result of attempting to advance the ladder.
type ladderStatus int

const (
	ladderOK ladderStatus = iota
	// ladderSaturated means the next prime needs more bits than the host
	// word; callers must stop growing but the table remains fully
	// usable (chains simply lengthen).
	ladderSaturated
	// ladderExhausted means the ladder itself has been fully consumed;
	// distinct from ladderSaturated so that callers never retry an
	// advance that cannot possibly succeed.
	ladderExhausted
)

// ladderParts holds each group's primes as their half-word components,
// least significant part first, zero-padded to 4 parts. Only the first
// g+1 parts of a group-g entry are meaningful.
var ladderParts = [4][][4]uint16{
	// group 0: 1 part (16 bits)
	{
		{1543, 0, 0, 0},
		{3079, 0, 0, 0},
		{6151, 0, 0, 0},
		{12289, 0, 0, 0},
		{24593, 0, 0, 0},
		{49157, 0, 0, 0},
		{65521, 0, 0, 0}, // largest prime below 2^16
	},
	// group 1: 2 parts (32 bits)
	{
		halfwords32(98317),
		halfwords32(196613),
		halfwords32(393241),
		halfwords32(786433),
		halfwords32(1572869),
		halfwords32(3145739),
		halfwords32(6291469),
		halfwords32(12582917),
		halfwords32(25165843),
		halfwords32(50331653),
		halfwords32(100663319),
		halfwords32(201326611),
		halfwords32(402653189),
		halfwords32(805306457),
		halfwords32(1610612741),
		halfwords32(3221225473), // 3*2^30 + 1, roughly midway between 2^31 and 2^32
		halfwords32(4294967291), // largest prime below 2^32
	},
	// group 2: 3 parts (48 bits)
	{
		halfwords64(8589934583),
		halfwords64(17179869143),
		halfwords64(34359738337),
		halfwords64(68719476731),
		halfwords64(137438953447),
		halfwords64(274877906899),
		halfwords64(549755813881),
		halfwords64(1099511627689),
		halfwords64(2199023255531),
		halfwords64(4398046511093),
		halfwords64(8796093022151),
		halfwords64(17592186044399),
		halfwords64(35184372088777),
		halfwords64(70368744177643),
		halfwords64(140737488355213),
		halfwords64(281474976710597), // near largest prime below 2^48
	},
	// group 3: 4 parts (64 bits)
	{
		halfwords64(562949953421231),
		halfwords64(1125899906842597),
		halfwords64(2251799813685119),
		halfwords64(4503599627370449),
		halfwords64(9007199254740881),
		halfwords64(18014398509481951),
		halfwords64(36028797018963913),
		halfwords64(72057594037927931),
		halfwords64(144115188075855859),
		halfwords64(288230376151711717),
		halfwords64(576460752303423433),
		halfwords64(1152921504606846883),
		halfwords64(3458764513820540933), // 3*2^60 + 5, roughly midway between 2^61 and 2^62
		halfwords64(4611686018427387847),
		halfwords64(9223372036854775783), // largest prime below 2^63
		halfwords64(18446744073709551557), // largest prime below 2^64
	},
}

func halfwords32(v uint32) [4]uint16 {
	return [4]uint16{uint16(v), uint16(v >> 16), 0, 0}
}

func halfwords64(v uint64) [4]uint16 {
	return [4]uint16{uint16(v), uint16(v >> 16), uint16(v >> 32), uint16(v >> 48)}
}

// buildPrime reconstructs the prime for (group, index) by OR-ing its
// half-word parts at shifts {0, 16, 32, 48}.
func buildPrime(group, index int) uint64 {
	parts := ladderParts[group][index]
	var v uint64
	for i, p := range parts {
		v |= uint64(p) << (uint(i) * halfWordBits)
	}
	return v
}

// advance moves the ladder forward by one rung, returning the new
// (group, index) and a status. status is ladderOK unless the ladder
// cannot be advanced further.
func advance(group, index int) (int, int, ladderStatus) {
	if group < 0 || group >= len(ladderParts) {
		return group, index, ladderExhausted
	}
	if index+1 < len(ladderParts[group]) {
		return group, index + 1, ladderOK
	}
	nextGroup := group + 1
	if nextGroup >= len(ladderParts) {
		// The next prime would need more bits than the host word
		// (more than 4 half-words / 64 bits) to represent.
		return group, index, ladderSaturated
	}
	if len(ladderParts[nextGroup]) == 0 {
		return group, index, ladderExhausted
	}
	return nextGroup, 0, ladderOK
}

// firstRung returns the (group, index) of the ladder's first entry.
func firstRung() (int, int) {
	return 0, 0
}
