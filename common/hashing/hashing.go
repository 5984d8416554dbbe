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

package hashing

import (
	"hash"
	"sync"

	"github.com/emberchain/emc/common/types"
	"golang.org/x/crypto/sha3"
)

// keccakState wraps sha3.state. In addition to the usual hash methods, it also
// supports Read to get a variable amount of data from the hash state.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// hasherPool holds LegacyKeccak256 hashers.
var hasherPool = sync.Pool{
	New: func() interface{} { return sha3.NewLegacyKeccak256() },
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h types.Hash) {
	sha := hasherPool.Get().(keccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	for _, b := range data {
		sha.Write(b)
	}
	sha.Read(h[:])
	return h
}
