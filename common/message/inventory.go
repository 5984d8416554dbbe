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

package message

import (
	"fmt"

	"github.com/emberchain/emc/common/types"
)

// InvType represents the allowed types of inventory vectors.
type InvType uint32

const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2
)

var invTypeStrings = map[InvType]string{
	InvTypeError: "ERROR",
	InvTypeTx:    "MSG_TX",
	InvTypeBlock: "MSG_BLOCK",
}

func (t InvType) String() string {
	if s, ok := invTypeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(t))
}

// InvVect defines an inventory vector which is used to describe data,
// as specified by the Type field, that a peer wants, has, or does not have
// to another peer.
type InvVect struct {
	Type InvType
	Hash types.Hash
}

func NewInvVect(typ InvType, hash types.Hash) *InvVect {
	return &InvVect{
		Type: typ,
		Hash: hash,
	}
}

// GetData requests the delivery of the listed inventory from a peer.
// The outer protocol layer owns framing and transmission.
type GetData struct {
	Inventories []*InvVect
}

func NewGetData() *GetData {
	return &GetData{
		Inventories: make([]*InvVect, 0),
	}
}

func (m *GetData) AddInvVect(iv *InvVect) {
	m.Inventories = append(m.Inventories, iv)
}

func (m *GetData) Empty() bool {
	return len(m.Inventories) == 0
}
