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

// Package unroll implements the lowering backend of a circuit compiler.  An
// external traversal driver walks the source circuit in order and reports
// what it sees through the Backend callback interface; the backend reacts by
// building a flat circuit.Circuit artifact in which every elementary gate
// carries its explicit matrix.  The backend never initiates traversal
// itself.
//
// The driver must obey the following protocol, with all calls made from a
// single goroutine:
//
//   - Register declarations (QReg, CReg) are reported before any use of
//     their bits.
//   - Gate definitions (DefineGate) are reported before any invocation of
//     the defined gate.
//   - Every custom-gate invocation is bracketed by StartGate/EndGate, and
//     these brackets nest like balanced parentheses; the primitives making
//     up the gate's body are reported between them.
//   - A classical guard is bracketed by SetCondition/DropCondition around
//     the operations it covers, and no guard remains active once traversal
//     completes.
//
// Any error returned by a callback aborts the whole unroll: records already
// appended to the artifact are not rolled back, so the partial artifact must
// be discarded.
package unroll

import (
	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
)

// Backend is the callback surface a traversal driver lowers a circuit
// through.  Callbacks are invoked in source-circuit order, recursing into
// the bodies of expanded gate definitions.
type Backend interface {
	// Version reports the source language version string.
	Version(version string)
	// QReg reports the declaration of a quantum register of a given size.
	QReg(name string, size int) error
	// CReg reports the declaration of a classical register of a given
	// size.
	CReg(name string, size int) error
	// DefineGate reports a gate declaration.  No lowering happens here;
	// the definition is retained for later invocations of the gate.
	DefineGate(name string, def GateDefinition)
	// U reports an application of the fundamental single-qubit unitary,
	// parameterised by three Euler angles.
	U(theta, phi, lambda float64, qubit circuit.BitRef) error
	// CX reports an application of the fundamental two-qubit
	// controlled-NOT gate.
	CX(control, target circuit.BitRef) error
	// Measure reports a projective measurement of a qubit into a
	// classical bit.
	Measure(qubit, cbit circuit.BitRef) error
	// Reset reports a reset of a qubit to the zero state.
	Reset(qubit circuit.BitRef) error
	// Barrier reports a scheduling barrier across groups of qubits.
	Barrier(groups [][]circuit.BitRef)
	// SetCondition attaches a classical guard (register equals value) to
	// the operations which follow, until dropped.
	SetCondition(creg string, value uint64)
	// DropCondition removes the active classical guard.
	DropCondition()
	// StartGate opens the invocation of a named custom gate.
	StartGate(name string, args []float64, qubits []circuit.BitRef) error
	// EndGate closes the invocation of a named custom gate.
	EndGate(name string, args []float64, qubits []circuit.BitRef)
}

// GateDefinition captures what the backend retains about a declared gate.
// The body itself stays with the traversal driver, which replays it between
// StartGate and EndGate whenever the gate is expanded.
type GateDefinition struct {
	// Opaque indicates the gate was declared without a body.  An opaque
	// gate cannot be expanded, so invoking one is only legal when its
	// name is already in the basis.
	Opaque bool
	// NumParams is the declared number of gate parameters.
	NumParams uint
	// NumQubits is the declared number of qubit arguments.
	NumQubits uint
}
