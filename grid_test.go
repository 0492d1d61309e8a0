// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package rangeledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerGrid_SingleRange(t *testing.T) {
	g := newPointerGrid()
	g.setRangePointers(1, 101, 1)

	for _, i := range []Index{1, 2, 15, 16, 17, 32, 48, 64, 100} {
		assert.Equal(t, Index(1), g.getPointer(i), "index %d", i)
	}
}

func TestPointerGrid_TwoAdjacentRanges(t *testing.T) {
	g := newPointerGrid()
	g.setRangePointers(1, 50, 1)
	g.setRangePointers(50, 201, 50)

	assert.Equal(t, Index(1), g.getPointer(1))
	assert.Equal(t, Index(1), g.getPointer(49))
	assert.Equal(t, Index(50), g.getPointer(50))
	assert.Equal(t, Index(50), g.getPointer(200))
}

func TestPointerGrid_ClearOnValueZero(t *testing.T) {
	g := newPointerGrid()
	g.setRangePointers(1, 33, 1)
	assert.Equal(t, Index(1), g.raw(1))

	g.setRangePointers(1, 33, 0)
	assert.Equal(t, Index(0), g.raw(1))
	assert.Equal(t, Index(0), g.raw(32))
}

func TestNextMultipleOf16After(t *testing.T) {
	assert.Equal(t, Index(16), nextMultipleOf16After(1))
	assert.Equal(t, Index(32), nextMultipleOf16After(16))
	assert.Equal(t, Index(16), nextMultipleOf16After(15))
}
