// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import "github.com/tidwall/btree"

// rangeStore is the leaf-most collaborator: a mapping from a range's
// start pointer to its descriptor, the pointer grid used to locate the
// enclosing range of any index, and an ordered set of live start
// pointers kept purely for enumeration (ModifyRanges' interval sweep).
//
// Grounded on the teacher's columnSortIndex (column_index.go), which
// keeps a btree.BTreeG alongside the primary column storage purely to
// serve ordered reads; here the "primary storage" is the plain map of
// descriptors and the btree is the equivalent always-sorted view over
// its keys.
type rangeStore struct {
	ranges map[Index]*Range
	grid   pointerGrid
	order  *btree.BTreeG[Index]
	now    clock
}

func newRangeStore(now clock) *rangeStore {
	return &rangeStore{
		ranges: make(map[Index]*Range, 256),
		grid:   newPointerGrid(),
		order:  btree.NewBTreeG[Index](func(a, b Index) bool { return a < b }),
		now:    now,
	}
}

func (s *rangeStore) nowUnix() uint32 {
	return uint32(s.now().Unix())
}

// get returns the live range descriptor at pointer, if any.
func (s *rangeStore) get(pointer Index) (Range, bool) {
	r, ok := s.ranges[pointer]
	if !ok {
		return Range{}, false
	}
	return *r, true
}

// setRange upserts the descriptor at pointer and repairs the pointer
// grid. Each field is written only if it changes, mirroring the
// teacher's habit of avoiding redundant writes (e.g. columnBool.Apply
// only flips bits that differ).
func (s *rangeStore) setRange(pointer Index, owner Address, stop Index, t uint32, tag Tag, custodian Address) {
	r, exists := s.ranges[pointer]
	if !exists {
		r = &Range{Start: pointer}
		s.ranges[pointer] = r
		s.order.Set(pointer)
	}
	if r.Owner != owner {
		r.Owner = owner
	}
	if r.Stop != stop {
		r.Stop = stop
	}
	if r.Time != t {
		r.Time = t
	}
	if r.Tag != tag {
		r.Tag = tag
	}
	if r.Custodian != custodian {
		r.Custodian = custodian
	}
	s.grid.setRangePointers(pointer, stop, pointer)
}

// removeRange deletes the descriptor at pointer, clears its grid
// markers and drops it from the ordered set. Used by merges that fold a
// range into its neighbor.
func (s *rangeStore) removeRange(pointer Index) {
	r, ok := s.ranges[pointer]
	if !ok {
		return
	}
	s.grid.setRangePointers(pointer, r.Stop, 0)
	delete(s.ranges, pointer)
	s.order.Delete(pointer)
}

// getPointer locates the start pointer of the range enclosing i.
func (s *rangeStore) getPointer(i Index) Index {
	return s.grid.getPointer(i)
}

// compareRanges reports whether the range at pointer is live and its
// (owner, time-after-lazy-zero, tag, custodian) matches the given
// values. Has the side effect of lazily expiring a past time lock.
func (s *rangeStore) compareRanges(pointer Index, owner Address, t uint32, tag Tag, custodian Address) bool {
	r, ok := s.ranges[pointer]
	if !ok {
		return false
	}
	s.expireIfPast(r)
	return r.Owner == owner && r.Time == t && r.Tag == tag && r.Custodian == custodian
}

// checkTime returns false if the range is still time-locked in the
// future; if the lock has passed, it clears it and returns true.
func (s *rangeStore) checkTime(pointer Index) bool {
	r, ok := s.ranges[pointer]
	if !ok {
		return false
	}
	s.expireIfPast(r)
	return r.Time == 0
}

// expireIfPast clears r.Time in place once it has passed, per spec.md's
// lazy time-lock clearing rule (§4.1, §8 property 6).
func (s *rangeStore) expireIfPast(r *Range) {
	if r.Time != 0 && r.Time <= s.nowUnix() {
		r.Time = 0
	}
}

// splitRange ensures split is a live range start. If the grid already
// marks it as one, this is a no-op. Otherwise it locates the enclosing
// range [p, oldStop), shrinks it to [p, split), and creates a new range
// [split, oldStop) inheriting all of its metadata. The new range's start
// pointer is returned so the caller (balances) can extend the owner's
// balance-ranges index; did is false when no split was necessary.
func (s *rangeStore) splitRange(split Index) (newStart Index, owner Address, did bool) {
	if s.grid.raw(split) == split {
		return 0, "", false
	}

	p := s.getPointer(split)
	enclosing := s.ranges[p]

	tail := *enclosing
	tail.Start = split

	oldStop := enclosing.Stop
	enclosing.Stop = split
	s.grid.setRangePointers(p, oldStop, 0) // clear trailing markers of the old span
	s.grid.setRangePointers(p, split, p)   // re-mark the shrunk head

	s.setRange(split, tail.Owner, tail.Stop, tail.Time, tail.Tag, tail.Custodian)
	return split, tail.Owner, true
}

// liveRangesOf returns every live range whose start lies in [lo, hi), in
// ascending order. ModifyRanges uses it to enumerate the ranges it
// rewrites.
func (s *rangeStore) liveRangesOf(lo, hi Index) []Range {
	var out []Range
	s.order.Ascend(lo, func(start Index) bool {
		if start >= hi {
			return false
		}
		out = append(out, *s.ranges[start])
		return true
	})
	return out
}
