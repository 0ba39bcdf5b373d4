// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package chainht implements a concurrent, chained hash table for
// fixed-size binary keys and fixed-size element payloads.
//
// The table uses the division method (modulus drawn from a fixed prime
// ladder) with chaining to resolve collisions. It is built for workloads
// that batch-insert many distinct keys from multiple goroutines and then
// search from multiple goroutines, growing the bucket array as the load
// factor crosses a configurable bound.
//
// chainht is a building block, not a service: callers own the memory of
// the keys and elements they pass in; the table owns its bucket array
// and node storage. It provides no iteration order, no snapshot
// iterator, no shrink, no persistence and no per-key TTL.
package chainht
