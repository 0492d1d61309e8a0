// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// Mint appends value freshly-allocated indices to the end of the
// addressable index space and credits them to to, with the given time
// lock, tag, and custodian (spec.md §4.3). It returns the first newly
// allocated index, which starts a new range unless the mint merged into
// the immediately preceding range because its metadata already matched.
func (e *Engine) Mint(to Address, value uint64, t uint32, tag Tag, custodian Address) (Index, error) {
	to = e.resolve(to)
	custodian = e.resolve(custodian)

	if value == 0 {
		return 0, ErrZeroValue
	}
	if value > MaxValue {
		return 0, ErrValueTooLarge
	}

	start := e.allocated
	stop := start + Index(value)
	if stop-1 > e.upperBound {
		return 0, ErrUpperBoundExceeded
	}

	if !e.hooks.CheckTransfer("", to, value) {
		return 0, ErrPolicyRejected
	}

	var prev Index
	if start > 1 {
		prev = e.store.getPointer(start - 1)
	}
	if prev != 0 && e.store.compareRanges(prev, to, t, tag, custodian) {
		prevR, _ := e.store.get(prev)
		e.store.setRange(prev, to, stop, prevR.Time, prevR.Tag, prevR.Custodian)
	} else {
		e.store.setRange(start, to, stop, t, tag, custodian)
		e.balances.of(to).replaceInBalanceRange(0, start)
	}

	e.balances.of(to).credit(value)
	e.totalSupply += value
	e.allocated = stop

	e.emit(Event{Kind: EventRangeSet, To: to, Start: start, Stop: stop, Value: value, Tag: tag, Time: t})
	e.emit(Event{Kind: EventTransferRange, To: to, Start: start, Stop: stop, Value: value, Tag: tag})
	return start, nil
}

// Burn removes ownership of [start, stop) from from, requiring the
// interval to lie entirely within one live range owned by from
// (spec.md §4.4). The vacated interval keeps its place in the tiling
// (owner becomes the empty address) rather than being deleted from the
// store, preserving the invariant that ranges always partition the
// index space.
func (e *Engine) Burn(from Address, start, stop Index) error {
	from = e.resolve(from)
	if start == 0 || stop <= start || stop-1 > e.upperBound {
		return ErrInvalidIndex
	}

	pointer := e.store.getPointer(start)
	r, ok := e.store.get(pointer)
	if !ok || r.Owner != from {
		return ErrNotOwner
	}
	if stop > r.Stop {
		return ErrRangeNotContiguous
	}
	if !e.store.checkTime(pointer) {
		return ErrTimeLocked
	}

	value := uint64(stop - start)
	if !e.hooks.CheckTransfer(from, "", value) {
		return ErrPolicyRejected
	}

	e.transferSingleRange(pointer, from, "", start, stop, r.Custodian)
	e.totalBurned += value
	return nil
}

// ModifyRange rewrites the metadata (time, tag, custodian) of the
// single live range starting exactly at pointer, without changing its
// owner or its bounds (spec.md §4.5). Merges with an immediately
// preceding range when the new metadata happens to match it.
func (e *Engine) ModifyRange(pointer Index, t uint32, tag Tag, custodian Address) error {
	custodian = e.resolve(custodian)

	r, ok := e.store.get(pointer)
	if !ok {
		return ErrRangeNotFound
	}

	var prev Index
	if pointer > 1 {
		prev = e.store.getPointer(pointer - 1)
	}
	if prev != 0 && e.store.compareRanges(prev, r.Owner, t, tag, custodian) {
		prevR, _ := e.store.get(prev)
		e.store.removeRange(pointer)
		e.store.setRange(prev, r.Owner, r.Stop, prevR.Time, prevR.Tag, prevR.Custodian)
		e.balances.of(r.Owner).replaceInBalanceRange(pointer, 0)
	} else {
		e.store.setRange(pointer, r.Owner, r.Stop, t, tag, custodian)
	}

	e.emit(Event{Kind: EventRangeSet, To: r.Owner, Start: r.Start, Stop: r.Stop, Value: r.Len(), Tag: tag, Time: t})
	return nil
}

// ModifyRanges rewrites the metadata (time, tag, custodian) of every
// range overlapping the index interval [start, stop), splitting at
// either boundary first when it falls in the middle of a range
// (spec.md §4.5). Ranges are swept left to right, so an interior range
// whose new metadata happens to match its now-modified predecessor
// merges into it as the sweep proceeds; a final check merges the
// sweep's tail into whatever lies at stop when that also matches.
func (e *Engine) ModifyRanges(start, stop Index, t uint32, tag Tag, custodian Address) error {
	custodian = e.resolve(custodian)
	if start == 0 || stop <= start || stop-1 > e.upperBound {
		return ErrInvalidIndex
	}

	if newStart, owner, did := e.store.splitRange(start); did {
		e.balances.of(owner).replaceInBalanceRange(0, newStart)
	}
	if newStart, owner, did := e.store.splitRange(stop); did {
		e.balances.of(owner).replaceInBalanceRange(0, newStart)
	}

	var pointers []Index
	for _, r := range e.store.liveRangesOf(start, stop) {
		pointers = append(pointers, r.Start)
	}

	for _, p := range pointers {
		if err := e.ModifyRange(p, t, tag, custodian); err != nil {
			return err
		}
	}

	e.mergeRightIfMatching(e.store.getPointer(stop - 1))
	return nil
}

// mergeRightIfMatching extends the range at pointer over its right
// neighbor when that neighbor shares (owner, time, tag, custodian),
// deleting the neighbor's now-redundant descriptor. This is the one
// merge direction ModifyRange itself doesn't attempt, since attempting
// it mid-sweep in ModifyRanges could delete a pointer the sweep hasn't
// reached yet.
func (e *Engine) mergeRightIfMatching(pointer Index) {
	r, ok := e.store.get(pointer)
	if !ok {
		return
	}
	boundary := r.Stop
	if !e.store.compareRanges(boundary, r.Owner, r.Time, r.Tag, r.Custodian) {
		return
	}

	right, _ := e.store.get(boundary)
	e.store.removeRange(boundary)
	e.store.setRange(pointer, r.Owner, right.Stop, r.Time, r.Tag, r.Custodian)
	e.balances.of(r.Owner).replaceInBalanceRange(boundary, 0)
}
