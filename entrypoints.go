// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// Transfer moves value from from to to, drawn from from's uncustodied
// balance, oldest ranges first (spec.md §4.9). All validation happens
// before any mutation: a rejected transfer leaves the ledger untouched.
func (e *Engine) Transfer(from, to Address, value uint64) error {
	return e.transfer(e.resolve(from), e.resolve(from), e.resolve(to), value, "")
}

// TransferFrom moves value out of from's balance on behalf of caller,
// debiting caller's allowance from from. The allowance is consulted and
// later debited only when caller is neither from nor the issuer
// (spec.md §4.9): the issuer may move any account's balance without an
// approved allowance, same as from acting on its own behalf.
func (e *Engine) TransferFrom(caller, from, to Address, value uint64) error {
	caller, from, to = e.resolve(caller), e.resolve(from), e.resolve(to)
	allowanceApplies := caller != from && caller != e.issuer

	if allowanceApplies {
		avail := e.Allowance(from, caller)
		if avail < value {
			return ErrInsufficientAllowance
		}
	}

	if err := e.transfer(caller, from, to, value, ""); err != nil {
		return err
	}

	if allowanceApplies {
		book := e.allowances[from]
		book[caller] -= value
	}
	return nil
}

// transfer is the shared commit path for Transfer and TransferFrom:
// validate, consult the oracle and policy hook, plan, then commit.
//
// Custodian routing by rating (spec.md §4.9): if the oracle reports the
// sender's rating as 0 and from isn't the issuer, from is itself a
// custodian account acting on a beneficiary's behalf, so the candidate
// ranges come from to's own balance-ranges index instead of from's
// (custodian moves someone else's tokens held under it), scoped to
// ranges tagged with from as their custodian. The commit still runs
// against to on both sides and keeps that same custodian scope, which
// nets to a balance-neutral, custody-preserving operation rather than a
// change of beneficial owner — exercising the planner's time-lock and
// policy-hook checks on the custodian's behalf without reassigning
// anything the plain TransferCustodian path already owns.
func (e *Engine) transfer(auth, from, to Address, value uint64, custodian Address) error {
	if from == to {
		return ErrSelfTransfer
	}
	if value == 0 {
		return ErrZeroValue
	}
	if value > MaxValue {
		return ErrValueTooLarge
	}

	poolOwner, rangeOwner, findCustodian := from, from, custodian
	senderBal := e.balances.of(from)
	senderWillBeZero := senderBal.balance == value

	if e.oracle != nil {
		result, err := e.oracle.CheckTransfer(auth, from, to, senderWillBeZero)
		if err != nil {
			return ErrComplianceRejected
		}
		if result.Ratings[0] == 0 && from != e.issuer {
			poolOwner, rangeOwner, findCustodian = to, to, from
		}
	}

	pool := e.balances.of(poolOwner)
	if pool.balance < value {
		return ErrInsufficientBalance
	}

	if !e.hooks.CheckTransfer(from, to, value) {
		return ErrPolicyRejected
	}

	selected, err := e.findTransferable(from, to, findCustodian, value, pool.candidates())
	if err != nil {
		return err
	}

	if e.oracle != nil {
		recipientWasZero := e.balances.of(to).balance == 0
		zeroFlags := [4]bool{senderWillBeZero, recipientWasZero, false, false}
		if _, err := e.oracle.TransferTokens(auth, from, to, zeroFlags); err != nil {
			return ErrComplianceRejected
		}
	}

	return e.transferMultipleRanges(rangeOwner, to, value, selected, findCustodian)
}

// TransferRange moves exactly the interval [start, stop) to to in a
// single commit, bypassing the planner entirely (spec.md §4.9). The
// interval must lie within one live range owned by from and must not
// be custodied — custodied ranges can only move via TransferCustodian.
func (e *Engine) TransferRange(from, to Address, start, stop Index) error {
	from, to = e.resolve(from), e.resolve(to)
	if from == to {
		return ErrSelfTransfer
	}
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
	if r.Custodian != "" {
		return ErrCustodianSendDisallowed
	}
	if !e.store.checkTime(pointer) {
		return ErrTimeLocked
	}

	if !e.hooks.CheckTransferRangeExplicit(r.Tag, from, to, start, stop) {
		return ErrPolicyRejected
	}

	if e.oracle != nil {
		senderWillBeZero := e.balances.of(from).balance == uint64(stop-start)
		if _, err := e.oracle.CheckTransfer(from, from, to, senderWillBeZero); err != nil {
			return ErrComplianceRejected
		}
	}

	e.transferSingleRange(pointer, from, to, start, stop, "")
	return nil
}

// TransferCustodian moves value held in trust by custodian for from
// into to's custodial holdings under the same custodian (spec.md
// §4.9's custodian-scoped path). Ranges considered are only those
// tagged with this custodian; the plain Transfer/TransferFrom paths
// never touch custodied balance.
func (e *Engine) TransferCustodian(custodian, from, to Address, value uint64) error {
	custodian, from, to = e.resolve(custodian), e.resolve(from), e.resolve(to)
	if from == to {
		return ErrSelfTransfer
	}
	if value == 0 {
		return ErrZeroValue
	}

	book, ok := e.custodial[custodian]
	if !ok || book[from] < value {
		return ErrInsufficientCustodialBalance
	}

	if !e.hooks.TransferTokensCustodian(custodian, from, to, value) {
		return ErrPolicyRejected
	}

	selected, err := e.findTransferable(from, to, custodian, value, e.balances.of(from).candidates())
	if err != nil {
		return err
	}

	if err := e.transferMultipleRanges(from, to, value, selected, custodian); err != nil {
		return err
	}

	book[from] -= value
	book[to] += value
	return nil
}
