// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "testing"

func TestDefaultReduceShortKey(t *testing.T) {
	key := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	if got, want := defaultReduce(key), uint64(1); got != want {
		t.Errorf("defaultReduce(%v) = %d, want %d", key, got, want)
	}
}

func TestDefaultReduceFoldsMultipleWindows(t *testing.T) {
	key := make([]byte, 16)
	key[0] = 5
	key[8] = 7
	if got, want := defaultReduce(key), uint64(12); got != want {
		t.Errorf("defaultReduce folded value = %d, want %d", got, want)
	}
}

func TestDefaultReducePartialTrailingWindow(t *testing.T) {
	key := []byte{1, 2, 3}
	var want uint64
	for i, b := range key {
		want |= uint64(b) << (uint(i) * 8)
	}
	if got := defaultReduce(key); got != want {
		t.Errorf("defaultReduce(%v) = %d, want %d", key, got, want)
	}
}

func TestTableBucketIndexUsesCustomReducer(t *testing.T) {
	tbl := New(Config{
		KeySize: 4, EltSize: 4, AlphaNum: 1, AlphaLogD: 0,
		Reducer: func(key []byte) uint64 { return 7 },
	})
	if got, want := tbl.bucketIndex([]byte{1, 2, 3, 4}, 1543), uint64(7%1543); got != want {
		t.Errorf("bucketIndex with custom reducer = %d, want %d", got, want)
	}
}

func TestTableBucketIndexDefaultReducer(t *testing.T) {
	tbl := New(Config{KeySize: 8, EltSize: 4, AlphaNum: 1, AlphaLogD: 0})
	key := []byte{3, 0, 0, 0, 0, 0, 0, 0}
	if got, want := tbl.bucketIndex(key, 1543), uint64(3%1543); got != want {
		t.Errorf("bucketIndex = %d, want %d", got, want)
	}
}
