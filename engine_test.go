// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubOracle always approves, recording the calls it saw. It reports
// both parties as ordinary investors (rating 1); set CustodianSender to
// true to report the sender as a custodian account (rating 0) and
// exercise the custodian-routing path instead.
type stubOracle struct {
	checked   int
	committed int

	CustodianSender bool
}

func (o *stubOracle) result() ComplianceResult {
	senderRating := uint8(1)
	if o.CustodianSender {
		senderRating = 0
	}
	return ComplianceResult{Ratings: [2]uint8{senderRating, 1}}
}

func (o *stubOracle) CheckTransfer(auth, from, to Address, senderWillBeZero bool) (ComplianceResult, error) {
	o.checked++
	return o.result(), nil
}

func (o *stubOracle) TransferTokens(auth, from, to Address, zeroFlags [4]bool) (ComplianceResult, error) {
	o.committed++
	return o.result(), nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(WithUpperBound(1_000_000), WithOracle(&stubOracle{}))
	assert.NoError(t, err)
	return e
}

func TestNewEngine_RejectsBadUpperBound(t *testing.T) {
	_, err := NewEngine(WithUpperBound(0))
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = NewEngine(WithUpperBound(MaxUpperBound + 1))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestMint_Basic(t *testing.T) {
	e := newTestEngine(t)

	start, err := e.Mint("alice", 100, 0, 1, "")
	assert.NoError(t, err)
	assert.Equal(t, Index(1), start)
	assert.Equal(t, uint64(100), e.BalanceOf("alice"))
	assert.Equal(t, uint64(100), e.TotalSupply())
}

func TestMint_MergesWithPrecedingMatchingRange(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Mint("alice", 50, 0, 1, "")
	assert.NoError(t, err)
	_, err = e.Mint("alice", 50, 0, 1, "")
	assert.NoError(t, err)

	ranges := e.RangesOf("alice")
	assert.Len(t, ranges, 1)
	assert.Equal(t, uint64(100), ranges[0].Len())
}

func TestMint_DistinctTagsDoNotMerge(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Mint("alice", 50, 0, 1, "")
	assert.NoError(t, err)
	_, err = e.Mint("alice", 50, 0, 2, "")
	assert.NoError(t, err)

	ranges := e.RangesOf("alice")
	assert.Len(t, ranges, 2)
}

func TestMint_RejectsZeroAndOverflow(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Mint("alice", 0, 0, 0, "")
	assert.ErrorIs(t, err, ErrZeroValue)

	_, err = e.Mint("alice", MaxValue+1, 0, 0, "")
	assert.ErrorIs(t, err, ErrValueTooLarge)
}

func TestMint_RejectsExceedingUpperBound(t *testing.T) {
	e, err := NewEngine(WithUpperBound(10))
	assert.NoError(t, err)

	_, err = e.Mint("alice", 11, 0, 0, "")
	assert.ErrorIs(t, err, ErrUpperBoundExceeded)
}

func TestBurn_WholeRange(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 100, 0, 0, "")

	err := e.Burn("alice", start, start+100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), e.BalanceOf("alice"))
	assert.Equal(t, uint64(0), e.TotalSupply())
}

func TestBurn_PartialRangeLeavesRemainder(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 100, 0, 0, "")

	err := e.Burn("alice", start, start+40)
	assert.NoError(t, err)
	assert.Equal(t, uint64(60), e.BalanceOf("alice"))

	ranges := e.RangesOf("alice")
	assert.Len(t, ranges, 1)
	assert.Equal(t, start+40, ranges[0].Start)
}

func TestBurn_RejectsNonOwner(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 100, 0, 0, "")

	err := e.Burn("bob", start, start+10)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestModifyRange_ChangesTag(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 100, 0, 1, "")

	err := e.ModifyRange(start, 0, 9, "")
	assert.NoError(t, err)

	r, ok := e.store.get(start)
	assert.True(t, ok)
	assert.Equal(t, Tag(9), r.Tag)
}

func TestModifyRanges_RejectsInvalidInterval(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 100, 0, 1, "")

	err := e.ModifyRanges(start, start, 0, 2, "")
	assert.ErrorIs(t, err, ErrInvalidIndex)

	r, _ := e.store.get(start)
	assert.Equal(t, Tag(1), r.Tag, "rejected batch should not apply partially")
}

func TestModifyRanges_SplitsMidRangeAtBothBoundaries(t *testing.T) {
	e := newTestEngine(t)
	start, _ := e.Mint("alice", 110, 0, 1, "")

	err := e.ModifyRanges(start+10, start+60, 0, 0xBEEF, "")
	assert.NoError(t, err)

	ranges := e.RangesOf("alice")
	assert.Len(t, ranges, 3)
	assert.Equal(t, start, ranges[0].Start)
	assert.Equal(t, uint64(10), ranges[0].Len())
	assert.Equal(t, Tag(1), ranges[0].Tag)

	assert.Equal(t, start+10, ranges[1].Start)
	assert.Equal(t, uint64(50), ranges[1].Len())
	assert.Equal(t, Tag(0xBEEF), ranges[1].Tag)

	assert.Equal(t, start+60, ranges[2].Start)
	assert.Equal(t, uint64(50), ranges[2].Len())
	assert.Equal(t, Tag(1), ranges[2].Tag)
}

func TestEngine_Stats(t *testing.T) {
	e := newTestEngine(t)
	_, _ = e.Mint("alice", 100, 0, 0, "")

	s := e.Stats()
	assert.Contains(t, s, "supply=100")
}
