// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import "github.com/kelindar/bitmap"

// accountBalances is the balance-ranges index for a single account: a
// dynamic vector of range-start pointers (possibly containing zero
// tombstones left by in-place removals) plus the cached integer
// balance.
//
// The occupied-slot bitmap mirrors Collection.fill/Collection.next in
// the teacher's collection.go: rather than scanning the vector for the
// first zero tombstone on every append, a parallel bitmap marks which
// slots are occupied so a freed slot is handed back out via
// bits.TrailingZeros64, exactly as findFreeIndex reuses row slots.
type accountBalances struct {
	balance uint64
	ranges  []Index
	fill    bitmap.Bitmap
}

func newAccountBalances() *accountBalances {
	return &accountBalances{fill: make(bitmap.Bitmap, 0, 4)}
}

// replaceInBalanceRange finds the first entry equal to old and overwrites
// it with newPtr. If no such entry exists and newPtr != 0, it is
// appended. (old=X, new=0) removes; (old=0, new=Y) appends;
// (old=X, new=Y) substitutes one pointer for another in place.
func (b *accountBalances) replaceInBalanceRange(old, newPtr Index) {
	for i, v := range b.ranges {
		if v == old {
			b.ranges[i] = newPtr
			if newPtr == 0 {
				b.fill.Remove(uint32(i))
			} else {
				b.fill.Set(uint32(i))
			}
			return
		}
	}

	if newPtr != 0 {
		b.append(newPtr)
	}
}

// append pushes newPtr into the first free (tombstoned) slot, or grows
// the vector if none is free.
func (b *accountBalances) append(newPtr Index) {
	if idx, ok := b.freeSlot(); ok {
		b.ranges[idx] = newPtr
		b.fill.Set(uint32(idx))
		return
	}

	b.ranges = append(b.ranges, newPtr)
	b.fill.Grow(uint32(len(b.ranges)))
	b.fill.Set(uint32(len(b.ranges) - 1))
}

// freeSlot finds the lowest tombstoned vector slot to reuse, as reported
// by the fill bitmap's MinZero.
func (b *accountBalances) freeSlot() (int, bool) {
	if len(b.ranges) == 0 {
		return 0, false
	}
	if idx, ok := b.fill.MinZero(); ok && int(idx) < len(b.ranges) {
		return int(idx), true
	}
	return 0, false
}

// credit adds v to the cached balance.
func (b *accountBalances) credit(v uint64) {
	b.balance += v
}

// debit subtracts v from the cached balance.
func (b *accountBalances) debit(v uint64) {
	b.balance -= v
}

// rangesOf returns the compaction (non-zero pointers) of the balance
// vector as live range descriptors, in stored (insertion) order.
func (b *accountBalances) rangesOf(s *rangeStore) []Range {
	out := make([]Range, 0, len(b.ranges))
	for _, p := range b.ranges {
		if p == 0 {
			continue
		}
		if r, ok := s.get(p); ok {
			out = append(out, r)
		}
	}
	return out
}

// candidates returns the raw, order-preserving, zero-skipped pointer
// list — the planner's input (spec.md §4.6 ordering contract).
func (b *accountBalances) candidates() []Index {
	out := make([]Index, 0, len(b.ranges))
	for _, p := range b.ranges {
		if p != 0 {
			out = append(out, p)
		}
	}
	return out
}

// balanceLedger is the registry of per-account balance-ranges indexes,
// keyed by address. It is the domain analogue of the teacher's columns
// registry (collection.go's columns type): a single map guarded by the
// engine's serialized operation model rather than its own lock, since
// spec.md §5 rules out concurrent access entirely.
type balanceLedger struct {
	accounts map[Address]*accountBalances
}

func newBalanceLedger() *balanceLedger {
	return &balanceLedger{accounts: make(map[Address]*accountBalances, 64)}
}

// of returns (creating if necessary) the balance index for addr.
func (l *balanceLedger) of(addr Address) *accountBalances {
	a, ok := l.accounts[addr]
	if !ok {
		a = newAccountBalances()
		l.accounts[addr] = a
	}
	return a
}

// balanceOf returns addr's cached integer balance.
func (l *balanceLedger) balanceOf(addr Address) uint64 {
	if a, ok := l.accounts[addr]; ok {
		return a.balance
	}
	return 0
}
