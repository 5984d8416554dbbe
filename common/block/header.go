// Copyright 2023 The EmberChain Authors
// This file is part of the EmberChain library.
//
// The EmberChain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The EmberChain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the EmberChain library. If not, see <http://www.gnu.org/licenses/>.

package block

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/emberchain/emc/common/hashing"
	"github.com/emberchain/emc/common/types"
	"github.com/holiman/uint256"
)

type Header struct {
	ParentHash types.Hash   `json:"parentHash"`
	Number     *uint256.Int `json:"number"`
	Time       uint64       `json:"timestamp"`
	Extra      []byte       `json:"-"`

	hash atomic.Value
}

func (h *Header) Number64() *uint256.Int {
	return h.Number
}

func (h *Header) ParentHash32() types.Hash {
	return h.ParentHash
}

// Hash returns the block hash of the header, which is simply the keccak256
// hash of its serialized fields. The hash is computed on the first call and
// cached thereafter.
func (h *Header) Hash() types.Hash {
	if hash := h.hash.Load(); hash != nil {
		return hash.(types.Hash)
	}
	var number [32]byte
	if h.Number != nil {
		number = h.Number.Bytes32()
	}
	var time [8]byte
	binary.BigEndian.PutUint64(time[:], h.Time)
	v := hashing.Keccak256Hash(h.ParentHash.Bytes(), number[:], time[:], h.Extra)
	h.hash.Store(v)
	return v
}

// CopyHeader creates a deep copy of a block header.
func CopyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Number = uint256.NewInt(0); h.Number != nil {
		cpy.Number.Set(h.Number)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}
