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
	"github.com/emberchain/emc/common/types"
	"github.com/holiman/uint256"
)

// Body holds the block payload. Transactions are carried as opaque bytes;
// decoding them is the responsibility of the execution layer.
type Body struct {
	Transactions [][]byte
}

type Block struct {
	header *Header
	body   *Body
}

func NewBlock(header *Header, body *Body) *Block {
	if body == nil {
		body = &Body{}
	}
	return &Block{
		header: CopyHeader(header),
		body:   body,
	}
}

func (b *Block) Header() IHeader {
	return b.header
}

func (b *Block) Body() *Body {
	return b.body
}

func (b *Block) Number64() *uint256.Int {
	return b.header.Number64()
}

func (b *Block) Hash() types.Hash {
	return b.header.Hash()
}
