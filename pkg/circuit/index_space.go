// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package circuit

import (
	"github.com/yeahalrightcool/go-qunroll/pkg/util/collection/omap"
)

// IndexSpace assigns dense global indices to the bits contributed by a
// sequence of register allocations.  Indices are handed out contiguously in
// allocation order, starting from zero, and are never reassigned or reused.
// There is one index space for qubits and an independent one for classical
// bits.
type IndexSpace struct {
	indices *omap.Map[BitRef, uint]
	// Total number of indices assigned so far.  This can exceed the size
	// of the mapping if a register name is (erroneously) allocated twice,
	// in which case the later block shadows the earlier one but the
	// earlier indices remain assigned.
	count uint
}

// NewIndexSpace constructs an empty index space.
func NewIndexSpace() *IndexSpace {
	return &IndexSpace{omap.NewMap[BitRef, uint](), 0}
}

// Allocate assigns size fresh indices to offsets [0,size) of a named
// register, returning the index of the first.  Allocating the same name
// twice appends a second, independent block; blocks are never merged.
func (p *IndexSpace) Allocate(name string, size uint) uint {
	base := p.count
	//
	for offset := uint(0); offset < size; offset++ {
		p.indices.Put(NewBitRef(name, offset), base+offset)
	}
	//
	p.count += size
	//
	return base
}

// IndexOf resolves a bit reference to its global index, if it has one.
func (p *IndexSpace) IndexOf(ref BitRef) (uint, bool) {
	return p.indices.Get(ref)
}

// Len returns the total number of indices assigned so far.
func (p *IndexSpace) Len() uint {
	return p.count
}

// Refs returns every registered bit reference in first-allocation order.
func (p *IndexSpace) Refs() []BitRef {
	return p.indices.Keys()
}

func (p *IndexSpace) String() string {
	return p.indices.String()
}
