// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "encoding/binary"

// Component C4: the bucket array and the key-to-word reduction that
// picks a bucket.
//
// Grounded on the teacher's key/hash.go, which builds a uint64 out of an
// arbitrary run of key bytes with encoding/binary.LittleEndian into a
// fixed buffer; here the fold runs over 8-byte windows instead of a
// single Put call, because chainht keys are not bounded to 8 bytes the
// way key/hash.go's fixed-width cases are.
//
// defaultReduce treats the key as a little-endian integer (mod 2^64);
// for keys longer than 8 bytes, successive 8-byte windows are summed
// into the same word, i.e. byte i contributes at bit position
// (i*8) mod 64. This is the fallback used whenever the table is
// constructed without a Reducer.
func defaultReduce(key []byte) uint64 {
	var word uint64
	var buf [8]byte
	for i := 0; i < len(key); i += 8 {
		end := i + 8
		if end > len(key) {
			end = len(key)
		}
		for j := range buf {
			buf[j] = 0
		}
		copy(buf[:], key[i:end])
		word += binary.LittleEndian.Uint64(buf[:])
	}
	return word
}

func (t *Table) reduce(key []byte) uint64 {
	if t.cfg.Reducer != nil {
		return t.cfg.Reducer(key)
	}
	return defaultReduce(key)
}

// bucketIndex computes the bucket a key belongs to under modulus m. m is
// always prime (drawn from the ladder in primeladder.go), which keeps
// the division method from lining up with patterns in composite keys.
func (t *Table) bucketIndex(key []byte, modulus uint64) uint64 {
	return t.reduce(key) % modulus
}
