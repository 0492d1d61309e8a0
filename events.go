// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

// Event is the observable side-effect surface (spec.md §6): Transfer
// gives the fungible-style aggregate, TransferRange the per-range delta
// (mint has From=="", burn has To==""), and RangeSet is emitted on mint
// and on metadata modification.
type Event struct {
	Kind  EventKind
	From  Address
	To    Address
	Value uint64
	Start Index
	Stop  Index
	Tag   Tag
	Time  uint32
}

// EventKind distinguishes the three observable event shapes.
type EventKind uint8

const (
	EventTransfer EventKind = iota
	EventTransferRange
	EventRangeSet
)

// EventLogger receives every event the engine emits. Event emission
// transport is explicitly out of scope (spec.md §1) — this is the seam,
// not a transport.
//
// Grounded on the teacher's commit.Logger/commit.Channel
// (commit/log.go): a Logger is just "Append(x) error", and Channel is
// the simplest possible implementation, forwarding each value onto a
// Go channel. We keep exactly that shape and drop the file/iostream-
// backed Log implementation, since persistent storage is a non-goal.
type EventLogger interface {
	Append(Event) error
}

// Channel is an EventLogger that sends each event into itself. A full
// channel blocks the emitting operation, matching spec.md §5's
// "no cancellation, operations are not interruptible" — callers that
// need non-blocking delivery should buffer the channel generously or
// drain it on another goroutine of their own.
type Channel chan Event

// Append sends ev into the channel.
func (c Channel) Append(ev Event) error {
	c <- ev
	return nil
}

// discardLogger is the default EventLogger: it drops every event.
type discardLogger struct{}

func (discardLogger) Append(Event) error { return nil }
