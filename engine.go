// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Engine is the single handle through which every range-ledger
// operation is performed. It owns the range store, the balance-ranges
// index, and the external collaborators; it is not safe for concurrent
// use (spec.md §5) and callers must serialize every call against it
// themselves.
//
// Grounded on the teacher's Collection (collection.go): one struct
// holding every piece of mutable state plus its collaborators, handed
// out by a single constructor and passed explicitly rather than reached
// via a package-level singleton.
type Engine struct {
	store    *rangeStore
	balances *balanceLedger

	issuer     Address
	upperBound Index

	oracle ComplianceOracle
	hooks  PolicyHooks
	events EventLogger
	log    *zap.Logger

	allowances map[Address]map[Address]uint64
	custodial  map[Address]map[Address]uint64 // custodian -> investor -> balance

	totalSupply uint64
	totalBurned uint64
	allocated   Index // next unallocated index; mint always appends here
}

// NewEngine constructs an empty ledger: no ranges allocated, index
// space [1, UpperBound] entirely unowned.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg, err := configure(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.UpperBound == 0 || cfg.UpperBound > MaxUpperBound {
		return nil, ErrInvalidIndex
	}

	e := &Engine{
		store:      newRangeStore(cfg.Clock),
		balances:   newBalanceLedger(),
		issuer:     cfg.Issuer,
		upperBound: cfg.UpperBound,
		oracle:     cfg.Oracle,
		hooks:      cfg.Hooks,
		events:     cfg.Events,
		log:        cfg.Logger.Named("rangeledger"),
		allowances: make(map[Address]map[Address]uint64),
		custodial:  make(map[Address]map[Address]uint64),
		allocated:  1,
	}
	return e, nil
}

// resolve maps the caller-facing "ownerID" sentinel onto the
// configured issuer address; every other address passes through
// unchanged.
func (e *Engine) resolve(addr Address) Address {
	if addr == ownerIDSentinel {
		return e.issuer
	}
	return addr
}

// emit forwards ev to the configured event sink, logging (not failing)
// on delivery error — emission is a side channel, never part of an
// operation's success/failure outcome.
func (e *Engine) emit(ev Event) {
	if err := e.events.Append(ev); err != nil {
		e.log.Warn("event delivery failed", zap.Uint8("kind", uint8(ev.Kind)), zap.Error(err))
	}
}

// BalanceOf returns addr's cached integer balance.
func (e *Engine) BalanceOf(addr Address) uint64 {
	return e.balances.balanceOf(e.resolve(addr))
}

// CustodialBalanceOf returns the balance custodian holds in trust for
// investor.
func (e *Engine) CustodialBalanceOf(custodian, investor Address) uint64 {
	book, ok := e.custodial[e.resolve(custodian)]
	if !ok {
		return 0
	}
	return book[e.resolve(investor)]
}

// Allowance returns the amount owner has approved spender to move on
// their behalf.
func (e *Engine) Allowance(owner, spender Address) uint64 {
	book, ok := e.allowances[e.resolve(owner)]
	if !ok {
		return 0
	}
	return book[e.resolve(spender)]
}

// Approve sets the amount spender may move out of owner's balance via
// TransferFrom.
func (e *Engine) Approve(owner, spender Address, value uint64) {
	owner, spender = e.resolve(owner), e.resolve(spender)
	book, ok := e.allowances[owner]
	if !ok {
		book = make(map[Address]uint64)
		e.allowances[owner] = book
	}
	book[spender] = value
}

// TotalSupply returns the total amount ever minted minus the total
// amount ever burned.
func (e *Engine) TotalSupply() uint64 {
	return e.totalSupply - e.totalBurned
}

// UpperBound returns the largest index the engine may ever allocate.
func (e *Engine) UpperBound() Index {
	return e.upperBound
}

// RangesOf returns every live range currently credited to addr, in
// balance-ranges index order (oldest first).
func (e *Engine) RangesOf(addr Address) []Range {
	return e.balances.of(e.resolve(addr)).rangesOf(e.store)
}

// Stats renders a human-readable one-line summary of the ledger's
// aggregate state, in the spirit of the teacher's introspection dumps
// (c.f. SUPRAXCore.Stats()'s fmt.Sprintf digest): total supply, burned
// amount, the number of stored ranges and tracked accounts, and the
// upper bound, with supply, burned amount and upper bound rendered via
// go-humanize for readability in logs.
func (e *Engine) Stats() string {
	return fmt.Sprintf(
		"rangeledger: supply=%s burned=%s live_ranges=%d accounts=%d upper_bound=%s",
		humanize.Comma(int64(e.TotalSupply())),
		humanize.Comma(int64(e.totalBurned)),
		len(e.store.ranges),
		len(e.balances.accounts),
		humanize.Comma(int64(e.upperBound)),
	)
}
