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

// Package circuit defines the artifact produced by unrolling: a flat,
// ordered sequence of elementary operation records, together with the dense
// index spaces which map named register bits onto global qubit and
// classical-bit indices.  The artifact is built incrementally (append only)
// by exactly one writer and has no synchronisation of its own.
package circuit

import (
	"fmt"
	"strings"
)

// Circuit is the accumulator for an unrolled circuit.  Registration grows
// the two index spaces; lowering appends operation records.  Once a record
// is appended it is never modified or removed, so a failure mid-unroll
// leaves a partial artifact which the caller must discard.
type Circuit struct {
	qubits *IndexSpace
	cbits  *IndexSpace
	ops    []Operation
}

// NewCircuit constructs an empty circuit artifact.
func NewCircuit() *Circuit {
	return &Circuit{
		qubits: NewIndexSpace(),
		cbits:  NewIndexSpace(),
	}
}

// Qubits returns the index space for quantum bits.
func (p *Circuit) Qubits() *IndexSpace {
	return p.qubits
}

// Cbits returns the index space for classical bits.
func (p *Circuit) Cbits() *IndexSpace {
	return p.cbits
}

// NumQubits returns the total number of qubits registered so far.
func (p *Circuit) NumQubits() uint {
	return p.qubits.Len()
}

// NumCbits returns the total number of classical bits registered so far.
func (p *Circuit) NumCbits() uint {
	return p.cbits.Len()
}

// NumOperations returns the number of operation records appended so far.
func (p *Circuit) NumOperations() uint {
	return uint(len(p.ops))
}

// Operation returns the ith record in the unrolled sequence.
func (p *Circuit) Operation(index uint) *Operation {
	return &p.ops[index]
}

// Operations returns the full unrolled sequence in order.  The returned
// slice must not be mutated.
func (p *Circuit) Operations() []Operation {
	return p.ops
}

// Append adds a record to the end of the unrolled sequence.
func (p *Circuit) Append(op Operation) {
	p.ops = append(p.ops, op)
}

func (p *Circuit) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("circuit{qubits=%d, cbits=%d, ops=[",
		p.NumQubits(), p.NumCbits()))
	//
	for i := range p.ops {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		builder.WriteString(p.ops[i].String())
	}
	//
	builder.WriteString("]}")
	//
	return builder.String()
}
