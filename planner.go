// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// findTransferable selects a minimal prefix of candidates sufficient to
// cover value, honoring time locks, custodian scoping, and the
// tag-scoped policy hook (spec.md §4.6). It preserves the candidate
// vector's order — the balance-ranges index's insertion order — which
// is what gives plain Transfer/TransferFrom their "oldest ranges first"
// semantics.
func (e *Engine) findTransferable(from, to, custodian Address, value uint64, candidates []Index) ([]Index, error) {
	var selected []Index
	var available uint64

	for _, p := range candidates {
		if !e.store.checkTime(p) {
			continue
		}

		r, ok := e.store.get(p)
		if !ok {
			continue
		}

		if r.Custodian != custodian {
			continue
		}

		if !e.hooks.CheckTransferRange(r.Tag, p, from, to, r.Len()) {
			continue
		}

		selected = append(selected, p)
		available += r.Len()
		if available >= value {
			return selected, nil
		}
	}

	return nil, ErrInsufficientTransferable
}

// PreviewTransferable reports whether value could currently be
// transferred from from to to (optionally scoped to custodian) without
// committing anything and without leaving behind find_transferable's
// lazy time-lock-clearing side effect (SPEC_FULL.md §12). It runs the
// real planner inside a checkpoint and always rolls back before
// returning.
func (e *Engine) PreviewTransferable(from, to, custodian Address, value uint64) (bool, error) {
	from, to, custodian = e.resolve(from), e.resolve(to), e.resolve(custodian)

	cp := newCheckpoint(e.store)
	cp.touchAccount(e.balances, from)
	cp.touchAccount(e.balances, to)

	candidates := e.balances.of(from).candidates()
	for _, p := range candidates {
		cp.touchRange(p)
	}

	_, err := e.findTransferable(from, to, custodian, value, candidates)
	cp.rollback()

	if err != nil {
		return false, err
	}
	return true, nil
}
