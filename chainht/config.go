// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import (
	"fmt"
	"math/bits"

	"github.com/aristanetworks/chainht/glog"
	"github.com/aristanetworks/chainht/logger"
)

// Comparator reports whether two key regions of length KeySize are equal.
// When nil, the table falls back to a raw byte-exact comparison.
type Comparator func(a, b []byte) bool

// Reducer folds a key region of length KeySize into a machine word. When
// nil, the table falls back to the byte-fold default described in
// SPEC_FULL.md §3.
type Reducer func(key []byte) uint64

// Destructor finalizes an element region before its node is released. It
// is invoked on Insert's update-in-place path (on the element being
// replaced), on Delete, and on Free. It is never invoked by Remove,
// which transfers ownership of the element bytes to the caller instead.
type Destructor func(elt []byte)

// AbortHandler is the host-supplied, assumed non-returning handler for
// abort-style failures. New invokes it when the Config fails validation
// (argument out of range); no other code path invokes it, and an
// allocation failure is not routed to it. The default logs via the
// configured Logger at Fatal level (which by convention in this house
// style does not return) and then panics, so a host that does not
// override it still gets a hard stop instead of silent corruption.
type AbortHandler func(error)

// Config configures a new Table. KeySize, EltSize, AlphaNum and AlphaLogD
// are required; every other field has a usable zero value.
type Config struct {
	// KeySize is the fixed byte length of every key, K >= 1.
	KeySize uint64
	// EltSize is the fixed byte length of every element, E >= 1. In
	// indirect mode (spec.md §3) EltSize equals the machine pointer size
	// and the E bytes are an opaque caller-managed handle.
	EltSize uint64
	// MinExpected sizes the initial bucket array so that MaxCount (the
	// load-factor bound) is at least MinExpected, or as close to it as
	// the prime ladder allows.
	MinExpected uint64
	// AlphaNum and AlphaLogD express the load-factor bound as the
	// fraction AlphaNum / 2^AlphaLogD. AlphaNum >= 1, 0 <= AlphaLogD <
	// 64.
	AlphaNum  uint64
	AlphaLogD uint

	// Align requests that the element region of every node be aligned to
	// Align bytes. Align must be a power of two; the zero value is
	// treated as 1 (no alignment requirement beyond the Go allocator's
	// own minimum).
	Align uint64

	// Stripes is the number of slot locks P in the locking discipline of
	// spec.md §4.5. Must be a power of two; the zero value defaults to
	// 16.
	Stripes int

	// BatchSize is the sub-batch size B used by Insert (spec.md §4.6).
	// The zero value defaults to 256.
	BatchSize int

	Comparator Comparator
	Reducer    Reducer
	Destructor Destructor

	Logger       logger.Logger
	AbortHandler AbortHandler
}

const (
	defaultStripes   = 16
	defaultBatchSize = 256
)

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = &glog.Glog{}
	}
	if c.AbortHandler == nil {
		l := c.Logger
		c.AbortHandler = func(err error) {
			l.Fatalf("chainht: %v", err)
			panic(err)
		}
	}
	if c.Align == 0 {
		c.Align = 1
	}
	if c.Stripes == 0 {
		c.Stripes = defaultStripes
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
}

func (c *Config) validate() error {
	if c.KeySize < 1 {
		return fmt.Errorf("chainht: KeySize must be >= 1, got %d", c.KeySize)
	}
	if c.EltSize < 1 {
		return fmt.Errorf("chainht: EltSize must be >= 1, got %d", c.EltSize)
	}
	if c.AlphaNum < 1 {
		return fmt.Errorf("chainht: AlphaNum must be >= 1, got %d", c.AlphaNum)
	}
	if c.AlphaLogD >= uint(bits.UintSize) {
		return fmt.Errorf("chainht: AlphaLogD must be < %d, got %d", bits.UintSize, c.AlphaLogD)
	}
	if c.Align == 0 || c.Align&(c.Align-1) != 0 {
		return fmt.Errorf("chainht: Align must be a power of two, got %d", c.Align)
	}
	if c.Stripes <= 0 || c.Stripes&(c.Stripes-1) != 0 {
		return fmt.Errorf("chainht: Stripes must be a power of two, got %d", c.Stripes)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("chainht: BatchSize must be >= 1, got %d", c.BatchSize)
	}
	return nil
}
