// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import "github.com/zeebo/xxh3"

// checkpoint snapshots the account and range slots an in-flight
// operation touches, so they can be restored if the operation needs to
// be discarded without committing — spec.md §5's "checkpoint of
// affected slots" option for atomicity, used concretely by
// PreviewTransferable (SPEC_FULL.md §12) to offer a true read-only
// variant of the planner despite find_transferable's side effect of
// lazily expiring time locks.
//
// Touched addresses are deduplicated via a small xxh3-hashed seen-set,
// following the hashing approach the teacher's maps_test.go benchmarks
// (xxh3.HashString keying a linear-scan entry list) rather than
// stdlib's map[Address]struct{} — so an operation that revisits the
// same address twice (e.g. a preview whose from and to resolve to the
// same account) only pays for one snapshot.
type checkpoint struct {
	store *rangeStore

	seenAddr map[uint64]struct{}
	accounts []acctSnapshot

	seenRange map[Index]struct{}
	ranges    []rangeSnapshot
}

type acctSnapshot struct {
	addr    Address
	ledger  *balanceLedger
	balance uint64
	ranges  []Index
}

type rangeSnapshot struct {
	pointer Index
	value   Range
}

func newCheckpoint(store *rangeStore) *checkpoint {
	return &checkpoint{
		store:     store,
		seenAddr:  make(map[uint64]struct{}, 8),
		seenRange: make(map[Index]struct{}, 8),
	}
}

// touchAccount records addr's pre-operation state the first time it is
// touched.
func (c *checkpoint) touchAccount(l *balanceLedger, addr Address) {
	h := xxh3.HashString(string(addr))
	if _, ok := c.seenAddr[h]; ok {
		return
	}
	c.seenAddr[h] = struct{}{}

	a := l.of(addr)
	c.accounts = append(c.accounts, acctSnapshot{
		addr:    addr,
		ledger:  l,
		balance: a.balance,
		ranges:  append([]Index(nil), a.ranges...),
	})
}

// touchRange records pointer's pre-operation descriptor the first time
// it is touched.
func (c *checkpoint) touchRange(pointer Index) {
	if _, ok := c.seenRange[pointer]; ok {
		return
	}
	c.seenRange[pointer] = struct{}{}

	if r, ok := c.store.get(pointer); ok {
		c.ranges = append(c.ranges, rangeSnapshot{pointer: pointer, value: r})
	}
}

// rollback restores every touched account and range to its pre-operation
// value. It does not repair the pointer grid or ordered index, since the
// only caller (PreviewTransferable) never structurally mutates a range —
// find_transferable only ever clears an expired Range.Time in place.
func (c *checkpoint) rollback() {
	for _, a := range c.accounts {
		acct := a.ledger.of(a.addr)
		acct.balance = a.balance
		acct.ranges = a.ranges
	}
	for _, rs := range c.ranges {
		if r, ok := c.store.ranges[rs.pointer]; ok {
			*r = rs.value
		}
	}
}
