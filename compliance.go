// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// This file declares the contracts for the engine's external
// collaborators (spec.md §6). Per spec.md §1 these are explicitly out
// of scope: the engine treats them as black boxes returning permissions
// and identity metadata, and ships no default implementation beyond a
// permissive no-op PolicyHooks (noopHooks) installed when no hooks are
// configured.

// ComplianceResult carries the identity/rating/country metadata a
// compliance oracle call resolves for the two parties of a transfer.
type ComplianceResult struct {
	AuthID    uint32
	IDs       [2]uint32
	Ratings   [2]uint8 // 0 = custodian account, >0 = ordinary investor rating
	Countries [2]uint16
}

// ComplianceOracle is the issuing-entity's external compliance
// collaborator. CheckTransfer is a pure query that may reject;
// TransferTokens is the stateful commit-intent call, invoked for its
// side effects even when its result is otherwise unused.
type ComplianceOracle interface {
	// CheckTransfer validates a prospective transfer from "from" to "to",
	// on behalf of auth, without committing anything.
	CheckTransfer(auth, from, to Address, senderWillBeZero bool) (ComplianceResult, error)

	// TransferTokens commits to a transfer's identity/rating resolution.
	// zeroFlags are, in order: sender balance will be zero, recipient
	// balance was zero, sender custodial balance will be zero, recipient
	// custodial balance was zero.
	TransferTokens(auth, from, to Address, zeroFlags [4]bool) (ComplianceResult, error)
}

// Hook selectors, named after the source contract's 4-byte function
// selectors (spec.md §6), kept as documentation of provenance rather
// than a dispatch key — this engine calls the typed methods below
// directly instead of routing through an encoded selector.
const (
	SelectorCheckTransfer              = 0x70aaf928
	SelectorCheckTransferRangePlanner  = 0x5a5a8ad8
	SelectorCheckTransferRangeExplicit = 0x2d79c6d7
	SelectorTransferTokenRange         = 0xead529f5
	SelectorTransferTokensCustodian    = 0x8b5f1240
)

// PolicyHooks are the optional, tag-scoped collaborators consulted by
// the planner and the commit routines. A nil PolicyHooks is treated as
// "always allow" by the engine (no optional hooks installed).
type PolicyHooks interface {
	// CheckTransfer is the untagged transfer pre-check.
	CheckTransfer(from, to Address, value uint64) bool

	// CheckTransferRange is the tag-scoped per-candidate-range check used
	// by the planner (find_transferable).
	CheckTransferRange(tag Tag, pointer Index, from, to Address, amount uint64) bool

	// CheckTransferRangeExplicit is the tag-scoped check used by
	// TransferRange.
	CheckTransferRangeExplicit(tag Tag, from, to Address, start, stop Index) bool

	// TransferTokenRange is a tag-scoped post-commit notification fired
	// once per committed sub-range.
	TransferTokenRange(tag Tag, from, to Address, start, stop Index) bool

	// TransferTokensCustodian notifies a custodian-internal transfer.
	TransferTokensCustodian(custodian, from, to Address, value uint64) bool
}

// CustodianCallback is the contract for a custodian notified, through
// ReceiveTransfer, of value received on a beneficiary's behalf. The
// engine holds no CustodianCallback and never calls ReceiveTransfer;
// transfers to a custodian complete without any callback.
type CustodianCallback interface {
	ReceiveTransfer(beneficiary Address, value uint64) bool
}

// noopHooks permits everything; used when Options.Hooks is nil.
type noopHooks struct{}

func (noopHooks) CheckTransfer(Address, Address, uint64) bool                         { return true }
func (noopHooks) CheckTransferRange(Tag, Index, Address, Address, uint64) bool        { return true }
func (noopHooks) CheckTransferRangeExplicit(Tag, Address, Address, Index, Index) bool { return true }
func (noopHooks) TransferTokenRange(Tag, Address, Address, Index, Index) bool         { return true }
func (noopHooks) TransferTokensCustodian(Address, Address, Address, uint64) bool      { return true }
