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
	"fmt"
	"strings"
)

// OperationKind distinguishes the variants of operation record which can
// appear in an unrolled circuit.
type OperationKind uint8

const (
	// OpGate is an elementary gate application with an explicit matrix.
	OpGate OperationKind = iota
	// OpMeasure is a projective measurement of one qubit into one
	// classical bit.
	OpMeasure
	// OpReset returns one qubit to the zero state.
	OpReset
)

func (p OperationKind) String() string {
	switch p {
	case OpGate:
		return "gate"
	case OpMeasure:
		return "measure"
	case OpReset:
		return "reset"
	default:
		panic(fmt.Sprintf("unknown operation kind %d", p))
	}
}

// Operation is a single record in the unrolled operation sequence.  Records
// are immutable once constructed; all state is reached through accessors.
// Only gate records carry a matrix, and only measurement records involve a
// classical bit.
type Operation struct {
	kind OperationKind
	// Name under which a gate record was emitted (e.g. "CX").  Empty for
	// measurement and reset records.
	name string
	// Number of qubits a gate record acts upon.
	size uint
	// Global indices of the qubits involved, in gate-argument order.
	qubits []uint
	// Global indices of the classical bits involved (measurement only).
	cbits []uint
	// Explicit matrix of a gate record, of dimension 2^size.
	matrix Matrix
}

// NewGateOperation constructs a gate record for a named gate acting on the
// given qubit indices with the given matrix.
func NewGateOperation(name string, qubits []uint, matrix Matrix) Operation {
	return Operation{
		kind:   OpGate,
		name:   name,
		size:   uint(len(qubits)),
		qubits: qubits,
		matrix: matrix,
	}
}

// NewMeasureOperation constructs a measurement record from a qubit index into
// a classical bit index.
func NewMeasureOperation(qubit uint, cbit uint) Operation {
	return Operation{
		kind:   OpMeasure,
		qubits: []uint{qubit},
		cbits:  []uint{cbit},
	}
}

// NewResetOperation constructs a reset record for a given qubit index.
func NewResetOperation(qubit uint) Operation {
	return Operation{
		kind:   OpReset,
		qubits: []uint{qubit},
	}
}

// Kind returns which variant of record this is.
func (p *Operation) Kind() OperationKind {
	return p.kind
}

// Name returns the emitted name of a gate record.
func (p *Operation) Name() string {
	return p.name
}

// Size returns the number of qubits a gate record acts upon.
func (p *Operation) Size() uint {
	return p.size
}

// Qubits returns the global qubit indices this record involves, in argument
// order.
func (p *Operation) Qubits() []uint {
	return p.qubits
}

// Cbits returns the global classical-bit indices this record involves.
func (p *Operation) Cbits() []uint {
	return p.cbits
}

// Matrix returns the explicit matrix of a gate record, or nil for
// measurement and reset records.
func (p *Operation) Matrix() Matrix {
	return p.matrix
}

func (p *Operation) String() string {
	switch p.kind {
	case OpGate:
		return fmt.Sprintf("%s %s", p.name, joinIndices(p.qubits))
	case OpMeasure:
		return fmt.Sprintf("measure %d -> %d", p.qubits[0], p.cbits[0])
	default:
		return fmt.Sprintf("reset %d", p.qubits[0])
	}
}

func joinIndices(indices []uint) string {
	strs := make([]string, len(indices))
	//
	for i, index := range indices {
		strs[i] = fmt.Sprintf("%d", index)
	}
	//
	return strings.Join(strs, ",")
}
