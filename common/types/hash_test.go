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

package types

import (
	"testing"
)

func TestBytesToHashPadsLeft(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02})
	if h[HashLength-1] != 0x02 || h[HashLength-2] != 0x01 {
		t.Fatalf("unexpected tail: %x", h)
	}
	if h[0] != 0 {
		t.Fatalf("expected left padding, got %x", h)
	}
}

func TestHexRoundTrip(t *testing.T) {
	h := HexToHash("0xff00000000000000000000000000000000000000000000000000000000000001")
	if got := h.Hex(); got != "0xff00000000000000000000000000000000000000000000000000000000000001" {
		t.Fatalf("hex mismatch: %s", got)
	}
}

func TestIsEmpty(t *testing.T) {
	var h Hash
	if !h.IsEmpty() {
		t.Fatal("zero hash should be empty")
	}
	h.SetBytes([]byte{1})
	if h.IsEmpty() {
		t.Fatal("non-zero hash should not be empty")
	}
}

func TestTerminalString(t *testing.T) {
	h := HexToHash("0x0102030000000000000000000000000000000000000000000000000000000405")
	if got := h.TerminalString(); got != "010203…0405" {
		t.Fatalf("terminal string mismatch: %s", got)
	}
}
