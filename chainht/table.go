// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import (
	"sort"
	"sync"
	"time"
)

// Table is a concurrent, chained hash table for fixed-size binary keys
// and fixed-size element payloads. The zero value is not usable; create
// one with New.
//
// Components C5–C8 live here: the gate lock and slot-lock stripes
// (locking discipline), the batch insert engine, single-key
// search/remove/delete/free, and grow/rehash.
type Table struct {
	cfg Config

	// gate protects modulus, buckets, count, maxCount, ladderGroup,
	// ladderIndex, ladderStat and grows. Per the Open Question
	// resolution in SPEC_FULL.md §1, every operation holds the gate
	// shared for the full duration of its stripe-lock phase, not just
	// for the initial snapshot, so that grow (which needs the gate
	// exclusively) can never race a stale snapshot out from under an
	// in-flight operation.
	gate sync.RWMutex

	modulus     uint64
	buckets     []*node
	count       uint64
	maxCount    uint64
	ladderGroup int
	ladderIndex int
	ladderStat  ladderStatus
	grows       uint64

	// stripes is the fixed-size array of slot locks S[0..P-1] from
	// spec.md §4.5. stripe i guards buckets[j] for every j with
	// j % len(stripes) == i.
	stripes []sync.RWMutex
}

// New constructs an empty Table per cfg. Preconditions on cfg
// (KeySize >= 1, EltSize >= 1, AlphaNum >= 1, AlphaLogD < 64, Align and
// Stripes powers of two) are routed to cfg.AbortHandler — or its
// default, which logs at Fatal and panics — rather than returned as an
// error, per spec.md §7.
func New(cfg Config) *Table {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		cfg.AbortHandler(err)
		return nil
	}

	group, index := firstRung()
	modulus := buildPrime(group, index)
	status := ladderOK
	for maxCount(modulus, cfg.AlphaNum, cfg.AlphaLogD) < cfg.MinExpected {
		ng, ni, st := advance(group, index)
		if st != ladderOK {
			status = st
			break
		}
		group, index = ng, ni
		modulus = buildPrime(group, index)
	}

	return &Table{
		cfg:         cfg,
		modulus:     modulus,
		buckets:     make([]*node, modulus),
		maxCount:    maxCount(modulus, cfg.AlphaNum, cfg.AlphaLogD),
		ladderGroup: group,
		ladderIndex: index,
		ladderStat:  status,
		stripes:     make([]sync.RWMutex, cfg.Stripes),
	}
}

// Len returns the current number of live keys.
func (t *Table) Len() uint64 {
	t.gate.RLock()
	defer t.gate.RUnlock()
	return t.count
}

// Modulus returns the current bucket-array size.
func (t *Table) Modulus() uint64 {
	t.gate.RLock()
	defer t.gate.RUnlock()
	return t.modulus
}

// snapshot returns the fields the metrics collector reports, taken
// together under one shared gate acquisition.
func (t *Table) snapshot() (count, modulus uint64, rung int, grows uint64) {
	t.gate.RLock()
	defer t.gate.RUnlock()
	return t.count, t.modulus, t.rungLocked(), t.grows
}

// rungLocked returns the overall, cross-group position of the ladder.
// Callers must hold the gate (shared or exclusive).
func (t *Table) rungLocked() int {
	n := 0
	for g := 0; g < t.ladderGroup; g++ {
		n += len(ladderParts[g])
	}
	return n + t.ladderIndex
}

type batchItem struct {
	bucket uint64
	idx    int
}

// Insert batch-inserts N keys of stride KeySize from keys and N elements
// of stride EltSize from elts (component C6). If a key is already
// present, its element is replaced — the destructor, if any, runs on the
// element being replaced — and the count is unaffected; otherwise a new
// node is prepended and the count increases by one.
//
// The batch is split into sub-batches of at most cfg.BatchSize, each of
// which settles fully into one snapshot of the bucket array before the
// live count is updated and grow is considered, per spec.md §4.6.
func (t *Table) Insert(keys, elts []byte, n int) {
	if n == 0 {
		return
	}
	K, E := t.cfg.KeySize, t.cfg.EltSize
	b := t.cfg.BatchSize
	for start := 0; start < n; start += b {
		end := start + b
		if end > n {
			end = n
		}
		t.insertSubBatch(keys[uint64(start)*K:uint64(end)*K], elts[uint64(start)*E:uint64(end)*E], end-start)
	}
}

func (t *Table) insertSubBatch(keys, elts []byte, n int) {
	K, E := t.cfg.KeySize, t.cfg.EltSize
	cmp := t.cfg.Comparator
	destructor := t.cfg.Destructor
	align := t.cfg.Align

	t.gate.RLock()
	modulus := t.modulus
	buckets := t.buckets
	stripeCount := uint64(len(t.stripes))

	byStripe := make(map[uint64][]batchItem)
	for i := 0; i < n; i++ {
		key := keys[uint64(i)*K : uint64(i+1)*K]
		bucket := t.bucketIndex(key, modulus)
		stripe := bucket % stripeCount
		byStripe[stripe] = append(byStripe[stripe], batchItem{bucket: bucket, idx: i})
	}

	stripeIDs := make([]uint64, 0, len(byStripe))
	for s := range byStripe {
		stripeIDs = append(stripeIDs, s)
	}
	sort.Slice(stripeIDs, func(i, j int) bool { return stripeIDs[i] < stripeIDs[j] })

	var newCount uint64
	for _, s := range stripeIDs {
		t.stripes[s].Lock()
		for _, it := range byStripe[s] {
			key := keys[uint64(it.idx)*K : uint64(it.idx+1)*K]
			elt := elts[uint64(it.idx)*E : uint64(it.idx+1)*E]
			head := &buckets[it.bucket]
			if existing := searchKeyNode(*head, key, K, cmp); existing != nil {
				if destructor != nil {
					destructor(existing.elt(E))
				}
				copy(existing.elt(E), elt)
			} else {
				prependNode(head, newNode(key, elt, K, E, align))
				newCount++
			}
		}
		t.stripes[s].Unlock()
	}
	t.gate.RUnlock()

	if newCount == 0 {
		return
	}
	t.gate.Lock()
	t.count += newCount
	if t.count > t.maxCount && t.ladderStat == ladderOK {
		t.grow()
	}
	t.gate.Unlock()
}

// Search returns a slice over the live node's element region for key, or
// nil if key is not present. The slice remains valid as long as no
// concurrent Remove/Delete removes that key (component C7).
func (t *Table) Search(key []byte) []byte {
	K, E := t.cfg.KeySize, t.cfg.EltSize
	cmp := t.cfg.Comparator

	t.gate.RLock()
	defer t.gate.RUnlock()
	modulus := t.modulus
	buckets := t.buckets
	bucket := t.bucketIndex(key, modulus)
	stripe := bucket % uint64(len(t.stripes))

	t.stripes[stripe].RLock()
	defer t.stripes[stripe].RUnlock()
	n := searchKeyNode(buckets[bucket], key, K, cmp)
	if n == nil {
		return nil
	}
	return n.elt(E)
}

// Remove, if key is present, copies its element into out, unlinks and
// discards the node without invoking the destructor — ownership of the
// element passes to the caller — and decrements the count. It reports
// whether key was found.
func (t *Table) Remove(key, out []byte) bool {
	K, E := t.cfg.KeySize, t.cfg.EltSize
	cmp := t.cfg.Comparator

	found := func() bool {
		t.gate.RLock()
		defer t.gate.RUnlock()
		modulus := t.modulus
		buckets := t.buckets
		bucket := t.bucketIndex(key, modulus)
		stripe := bucket % uint64(len(t.stripes))

		t.stripes[stripe].Lock()
		defer t.stripes[stripe].Unlock()
		head := &buckets[bucket]
		n := searchKeyNode(*head, key, K, cmp)
		if n == nil {
			return false
		}
		copy(out, n.elt(E))
		removeNode(head, n)
		return true
	}()

	if found {
		t.gate.Lock()
		t.count--
		t.gate.Unlock()
	}
	return found
}

// Delete, if key is present, unlinks its node, invokes the destructor on
// its element region, and decrements the count. It reports whether key
// was found.
func (t *Table) Delete(key []byte) bool {
	K, E := t.cfg.KeySize, t.cfg.EltSize
	cmp := t.cfg.Comparator
	destructor := t.cfg.Destructor

	found := func() bool {
		t.gate.RLock()
		defer t.gate.RUnlock()
		modulus := t.modulus
		buckets := t.buckets
		bucket := t.bucketIndex(key, modulus)
		stripe := bucket % uint64(len(t.stripes))

		t.stripes[stripe].Lock()
		defer t.stripes[stripe].Unlock()
		head := &buckets[bucket]
		n := searchKeyNode(*head, key, K, cmp)
		if n == nil {
			return false
		}
		deleteNode(head, n, E, destructor)
		return true
	}()

	if found {
		t.gate.Lock()
		t.count--
		t.gate.Unlock()
	}
	return found
}

// Free releases every node (invoking the destructor on each element
// region) and the bucket array. It does not release the Table struct
// itself; the Table must not be used after Free.
func (t *Table) Free() {
	t.gate.Lock()
	defer t.gate.Unlock()
	E := t.cfg.EltSize
	destructor := t.cfg.Destructor
	for i := range t.buckets {
		freeChain(&t.buckets[i], E, destructor)
	}
	t.buckets = nil
	t.count = 0
}

// grow implements component C8. Precondition: called with t.gate held
// exclusively and t.count > t.maxCount and t.ladderStat == ladderOK.
func (t *Table) grow() {
	// Acquire every slot lock in stripe order, exactly as spec.md §4.5's
	// rationale describes for grow. By construction (see the Open
	// Question resolution in SPEC_FULL.md §1) no operation can be
	// in-flight at this point — every insert/search/remove/delete holds
	// the gate shared for its whole stripe-lock phase, and we are
	// holding the gate exclusively — so this never blocks; it documents
	// the invariant rather than enforcing it.
	for i := range t.stripes {
		t.stripes[i].Lock()
	}
	defer func() {
		for i := range t.stripes {
			t.stripes[i].Unlock()
		}
	}()
	start := time.Now()

	oldModulus := t.modulus
	group, index := t.ladderGroup, t.ladderIndex
	newModulus := oldModulus
	status := t.ladderStat
	for {
		ng, ni, st := advance(group, index)
		if st != ladderOK {
			status = st
			break
		}
		group, index = ng, ni
		newModulus = buildPrime(group, index)
		if maxCount(newModulus, t.cfg.AlphaNum, t.cfg.AlphaLogD) >= t.count {
			break
		}
	}
	if newModulus == oldModulus {
		t.ladderStat = status
		return
	}

	newBuckets := make([]*node, newModulus)
	for b := uint64(0); b < oldModulus; b++ {
		head := t.buckets[b]
		for head != nil {
			n := head
			removeNode(&head, n)
			nb := t.bucketIndex(n.key(t.cfg.KeySize), newModulus)
			prependNode(&newBuckets[nb], n)
		}
	}

	t.buckets = newBuckets
	t.modulus = newModulus
	t.ladderGroup = group
	t.ladderIndex = index
	t.maxCount = maxCount(newModulus, t.cfg.AlphaNum, t.cfg.AlphaLogD)
	t.ladderStat = status
	t.grows++
	t.cfg.Logger.Infof("chainht: grew modulus %d -> %d in %s (count=%d, maxCount=%d, ladderStatus=%d)",
		oldModulus, newModulus, time.Since(start), t.count, t.maxCount, t.ladderStat)
}
