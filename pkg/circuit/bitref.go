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

import "fmt"

// BitRef identifies a single bit (quantum or classical) as an offset within a
// named register, exactly as it appears in the source circuit.  Bit
// references are pure values and are only meaningful relative to the index
// space they are resolved against.
type BitRef struct {
	// Name of the register this bit belongs to.
	Register string
	// Offset of this bit within its register.
	Offset uint
}

// NewBitRef constructs a reference to a given offset within a named register.
func NewBitRef(register string, offset uint) BitRef {
	return BitRef{register, offset}
}

func (p BitRef) String() string {
	return fmt.Sprintf("%s[%d]", p.Register, p.Offset)
}
