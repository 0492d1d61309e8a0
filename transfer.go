// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// transferSingleRange commits ownership of exactly one contiguous
// sub-interval [start, stop) of the existing range enclosing it (at
// pointer) to `to`, resetting time to 0 and keeping the source range's
// tag. It implements the four-way case analysis of spec.md §4.7,
// merging with either neighbor when their (owner, time=0, tag,
// custodian) already matches what the committed sub-range would be.
func (e *Engine) transferSingleRange(pointer Index, from, to Address, start, stop Index, custodian Address) {
	enclosing, _ := e.store.get(pointer)
	rangeStop := enclosing.Stop
	tag := enclosing.Tag

	var prev Index
	if start > 1 {
		prev = e.store.getPointer(start - 1)
	}
	L := prev != 0 && e.store.compareRanges(prev, to, 0, tag, custodian)
	R := e.store.compareRanges(stop, to, 0, tag, custodian)

	moved := uint64(stop - start)
	e.balances.of(from).debit(moved)
	if to != "" {
		e.balances.of(to).credit(moved)
	}

	switch {
	case pointer == start && rangeStop == stop:
		e.commitExactMatch(pointer, from, to, stop, tag, custodian, prev, L, R)
	case pointer == start && rangeStop > stop:
		e.commitLeftAligned(pointer, from, to, stop, rangeStop, tag, custodian, prev, L)
	case pointer < start && rangeStop == stop:
		e.commitRightAligned(pointer, from, to, start, stop, tag, custodian, R)
	default: // pointer < start && rangeStop > stop
		e.commitInterior(pointer, from, to, start, stop, rangeStop, tag, custodian)
	}

	e.emit(Event{Kind: EventTransferRange, From: from, To: to, Start: start, Stop: stop, Value: uint64(stop - start), Tag: tag})
}

// commitExactMatch handles case 1: the committed interval is exactly
// the enclosing range.
func (e *Engine) commitExactMatch(pointer Index, from, to Address, stop Index, tag Tag, custodian Address, prev Index, L, R bool) {
	switch {
	case L && R:
		right, _ := e.store.get(stop)
		prevR, _ := e.store.get(prev)
		e.store.removeRange(pointer)
		e.store.removeRange(stop)
		e.store.setRange(prev, to, right.Stop, prevR.Time, prevR.Tag, prevR.Custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
		e.balances.of(to).replaceInBalanceRange(stop, 0)
	case L:
		prevR, _ := e.store.get(prev)
		e.store.removeRange(pointer)
		e.store.setRange(prev, to, stop, prevR.Time, prevR.Tag, prevR.Custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
	case R:
		right, _ := e.store.get(stop)
		e.store.removeRange(stop)
		e.store.setRange(pointer, to, right.Stop, 0, tag, custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
		e.balances.of(to).replaceInBalanceRange(stop, pointer)
	default:
		e.store.setRange(pointer, to, stop, 0, tag, custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
		e.balances.of(to).replaceInBalanceRange(0, pointer)
	}
}

// commitLeftAligned handles case 2: the committed interval starts at
// the enclosing range's start but doesn't consume all of it.
func (e *Engine) commitLeftAligned(pointer Index, from, to Address, stop, rangeStop Index, tag Tag, custodian Address, prev Index, L bool) {
	if L {
		prevR, _ := e.store.get(prev)
		e.store.removeRange(pointer)
		e.store.setRange(prev, to, stop, prevR.Time, prevR.Tag, prevR.Custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
	} else {
		e.store.setRange(pointer, to, stop, 0, tag, custodian)
		e.balances.of(from).replaceInBalanceRange(pointer, 0)
		e.balances.of(to).replaceInBalanceRange(0, pointer)
	}

	e.store.setRange(stop, from, rangeStop, 0, tag, custodian)
	e.balances.of(from).replaceInBalanceRange(0, stop)
}

// commitRightAligned handles case 3: the committed interval ends at the
// enclosing range's stop but doesn't start at its beginning.
func (e *Engine) commitRightAligned(pointer Index, from, to Address, start, stop Index, tag Tag, custodian Address, R bool) {
	enclosing, _ := e.store.get(pointer)
	e.store.setRange(pointer, from, start, enclosing.Time, enclosing.Tag, enclosing.Custodian)

	if R {
		right, _ := e.store.get(stop)
		e.store.removeRange(stop)
		e.store.setRange(start, to, right.Stop, 0, tag, custodian)
		e.balances.of(to).replaceInBalanceRange(stop, start)
	} else {
		e.store.setRange(start, to, stop, 0, tag, custodian)
		e.balances.of(to).replaceInBalanceRange(0, start)
	}
}

// commitInterior handles case 4: the committed interval is strictly
// inside the enclosing range on both sides.
func (e *Engine) commitInterior(pointer Index, from, to Address, start, stop, rangeStop Index, tag Tag, custodian Address) {
	enclosing, _ := e.store.get(pointer)
	e.store.setRange(pointer, from, start, enclosing.Time, enclosing.Tag, enclosing.Custodian)
	e.store.setRange(start, to, stop, 0, tag, custodian)
	e.store.setRange(stop, from, rangeStop, 0, tag, custodian)

	e.balances.of(to).replaceInBalanceRange(0, start)
	e.balances.of(from).replaceInBalanceRange(0, stop)
}

// transferMultipleRanges commits the planner's selection against a
// total value, emitting one aggregate Transfer event followed by one
// TransferRange per committed sub-range (spec.md §4.8).
func (e *Engine) transferMultipleRanges(from, to Address, value uint64, selected []Index, custodian Address) error {
	e.emit(Event{Kind: EventTransfer, From: from, To: to, Value: value})

	remaining := value
	for _, p := range selected {
		r, ok := e.store.get(p)
		if !ok {
			continue
		}

		stop := r.Stop
		if amount := p + Index(remaining); amount < stop {
			stop = amount
		}
		tag := r.Tag

		e.transferSingleRange(p, from, to, p, stop, custodian)
		remaining -= uint64(stop - p)
		e.hooks.TransferTokenRange(tag, from, to, p, stop)

		if remaining == 0 {
			return nil
		}
	}

	if remaining != 0 {
		return ErrInsufficientTransferable
	}
	return nil
}
