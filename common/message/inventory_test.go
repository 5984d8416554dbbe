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
	"testing"

	"github.com/emberchain/emc/common/types"
)

func TestInvTypeString(t *testing.T) {
	tests := []struct {
		in   InvType
		want string
	}{
		{InvTypeError, "ERROR"},
		{InvTypeTx, "MSG_TX"},
		{InvTypeBlock, "MSG_BLOCK"},
		{InvType(0xffffffff), "Unknown InvType (4294967295)"},
	}
	for _, test := range tests {
		if got := test.in.String(); got != test.want {
			t.Errorf("String: got %v, want %v", got, test.want)
		}
	}
}

func TestGetDataAddInvVect(t *testing.T) {
	m := NewGetData()
	if !m.Empty() {
		t.Fatal("new getdata should be empty")
	}

	hash := types.HexToHash("0x0102")
	m.AddInvVect(NewInvVect(InvTypeBlock, hash))

	if m.Empty() || len(m.Inventories) != 1 {
		t.Fatalf("unexpected inventory count: %d", len(m.Inventories))
	}
	if m.Inventories[0].Type != InvTypeBlock || m.Inventories[0].Hash != hash {
		t.Fatal("inventory vector mismatch")
	}
}
