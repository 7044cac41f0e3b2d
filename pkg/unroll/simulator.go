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
package unroll

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
	"github.com/yeahalrightcool/go-qunroll/pkg/util/collection/omap"
)

// condition is an active classical guard: the named classical register must
// equal the given value for guarded operations to apply.
type condition struct {
	creg  string
	value uint64
}

// SimulatorBackend lowers a circuit traversal into a circuit.Circuit whose
// gate records all carry explicit matrices, suitable for direct consumption
// by a numeric simulator.  Custom gates whose names are in the basis set are
// treated as opaque primitives (their nested expansion is muted); everything
// else is expanded recursively down to U and CX.
//
// A SimulatorBackend is single-use and single-threaded: it serves exactly
// one traversal, and must not be shared across goroutines.
type SimulatorBackend struct {
	circ *circuit.Circuit
	// Names of gates emitted directly rather than expanded.  U and CX
	// join automatically the first time they are lowered.
	basis *omap.Map[string, struct{}]
	// Declared gates, keyed by name.
	gates map[string]GateDefinition
	// Matrix suppliers for basis-level gate invocations.
	emitters map[string]BasisEmitter
	// Active classical guard, or nil when unconditional.
	cond *condition
	// Expansion controller state.
	mode listenMode
	// Names of gate invocations currently open, innermost last.  Used
	// only to detect unbalanced StartGate/EndGate bracketing.
	invocations []string
	// Diagnostic echo channel, or nil when tracing is off.
	trace *tracer
}

var _ Backend = (*SimulatorBackend)(nil)

// NewSimulatorBackend constructs a backend which unrolls down to the given
// basis gates.  With no basis given, everything unrolls to U and CX.
func NewSimulatorBackend(basis ...string) *SimulatorBackend {
	p := &SimulatorBackend{
		circ:     circuit.NewCircuit(),
		basis:    omap.NewMap[string, struct{}](),
		gates:    make(map[string]GateDefinition),
		emitters: make(map[string]BasisEmitter),
		mode:     listening{},
	}
	//
	for _, name := range basis {
		p.basis.Put(name, struct{}{})
	}
	//
	return p
}

// Circuit returns the artifact built so far.  It is exposed by reference and
// keeps growing until the traversal completes; after a lowering error it
// must be treated as unusable.
func (p *SimulatorBackend) Circuit() *circuit.Circuit {
	return p.circ
}

// SetBasis replaces the basis set with the given gate names.
func (p *SimulatorBackend) SetBasis(basis []string) {
	p.basis = omap.NewMap[string, struct{}]()
	//
	for _, name := range basis {
		p.basis.Put(name, struct{}{})
	}
}

// Basis returns the current basis gate names, oldest first.
func (p *SimulatorBackend) Basis() []string {
	return p.basis.Keys()
}

// SetTrace enables (or disables) echoing accepted operations to stdout in
// source syntax.  The echo is purely diagnostic and never touches the
// artifact.
func (p *SimulatorBackend) SetTrace(enable bool) {
	if enable {
		p.SetTraceWriter(os.Stdout)
	} else {
		p.trace = nil
	}
}

// SetTraceWriter enables tracing to a given writer.
func (p *SimulatorBackend) SetTraceWriter(out io.Writer) {
	p.trace = &tracer{out}
}

// RegisterEmitter installs a matrix supplier for a basis gate, letting its
// invocations append gate records directly instead of being silently muted.
func (p *SimulatorBackend) RegisterEmitter(name string, emitter BasisEmitter) {
	p.emitters[name] = emitter
}

// Listening reports whether primitive lowering is currently enabled, i.e. no
// basis-level gate invocation is in flight.
func (p *SimulatorBackend) Listening() bool {
	_, ok := p.mode.(listening)
	return ok
}

// ActiveCondition returns the classical guard currently in force, if any.  A
// well-formed traversal ends with no active condition.
func (p *SimulatorBackend) ActiveCondition() (string, uint64, bool) {
	if p.cond != nil {
		return p.cond.creg, p.cond.value, true
	}
	//
	return "", 0, false
}

// Version reports the source language version.  The numeric artifact does
// not record it.
func (p *SimulatorBackend) Version(version string) {
	log.Debugf("unrolling version %s circuit", version)
}

// QReg registers a quantum register, extending the qubit index space.
func (p *SimulatorBackend) QReg(name string, size int) error {
	if size < 0 {
		return errInvalidRegisterSize("qreg", name, size)
	}
	//
	p.circ.Qubits().Allocate(name, uint(size))
	log.Debugf("added %d qubits from qreg %s giving a total of %d qubits",
		size, name, p.circ.NumQubits())
	//
	return nil
}

// CReg registers a classical register, extending the classical-bit index
// space.
func (p *SimulatorBackend) CReg(name string, size int) error {
	if size < 0 {
		return errInvalidRegisterSize("creg", name, size)
	}
	//
	p.circ.Cbits().Allocate(name, uint(size))
	log.Debugf("added %d cbits from creg %s giving a total of %d cbits",
		size, name, p.circ.NumCbits())
	//
	return nil
}

// DefineGate retains a gate declaration for later invocations.  Nothing is
// lowered here.
func (p *SimulatorBackend) DefineGate(name string, def GateDefinition) {
	p.gates[name] = def
}

// U lowers the fundamental single-qubit unitary, appending a gate record
// with its explicit 2x2 matrix.  While muted this is a no-op: the enclosing
// basis-level invocation accounts for the gate instead.
func (p *SimulatorBackend) U(theta, phi, lambda float64, qubit circuit.BitRef) error {
	if !p.Listening() {
		return nil
	}
	// U becomes a basis primitive the first time it is lowered.
	p.basis.Put("U", struct{}{})
	//
	if p.trace != nil {
		p.trace.unitary(p.cond, theta, phi, lambda, qubit)
	}
	//
	if p.cond != nil {
		return errConditional("U", p.cond.creg, p.cond.value)
	}
	//
	index, ok := p.circ.Qubits().IndexOf(qubit)
	if !ok {
		return errUnknownBit("qubit", qubit)
	}
	//
	name := fmt.Sprintf("U(%s,%s,%s)",
		formatParam(theta), formatParam(phi), formatParam(lambda))
	p.circ.Append(circuit.NewGateOperation(name, []uint{index},
		circuit.UnitaryMatrix(theta, phi, lambda)))
	//
	return nil
}

// CX lowers the fundamental two-qubit controlled-NOT, appending a gate
// record with the fixed 4x4 permutation matrix.  While muted this is a
// no-op.
func (p *SimulatorBackend) CX(control, target circuit.BitRef) error {
	if !p.Listening() {
		return nil
	}
	// CX becomes a basis primitive the first time it is lowered.
	p.basis.Put("CX", struct{}{})
	//
	if p.trace != nil {
		p.trace.cnot(p.cond, control, target)
	}
	//
	if p.cond != nil {
		return errConditional("CX", p.cond.creg, p.cond.value)
	}
	//
	cidx, ok := p.circ.Qubits().IndexOf(control)
	if !ok {
		return errUnknownBit("qubit", control)
	}
	//
	tidx, ok := p.circ.Qubits().IndexOf(target)
	if !ok {
		return errUnknownBit("qubit", target)
	}
	//
	p.circ.Append(circuit.NewGateOperation("CX", []uint{cidx, tidx},
		circuit.ControlledNotMatrix()))
	//
	return nil
}

// Measure records a projective measurement.  Measurements are recorded
// regardless of mute state and are permitted under a classical guard.
func (p *SimulatorBackend) Measure(qubit, cbit circuit.BitRef) error {
	qidx, ok := p.circ.Qubits().IndexOf(qubit)
	if !ok {
		return errUnknownBit("qubit", qubit)
	}
	//
	cidx, ok := p.circ.Cbits().IndexOf(cbit)
	if !ok {
		return errUnknownBit("cbit", cbit)
	}
	//
	if p.trace != nil {
		p.trace.measure(p.cond, qubit, cbit)
	}
	//
	p.circ.Append(circuit.NewMeasureOperation(qidx, cidx))
	//
	return nil
}

// Reset records a qubit reset.  Like measurement, resets are recorded
// regardless of mute state and are permitted under a classical guard.
func (p *SimulatorBackend) Reset(qubit circuit.BitRef) error {
	qidx, ok := p.circ.Qubits().IndexOf(qubit)
	if !ok {
		return errUnknownBit("qubit", qubit)
	}
	//
	if p.trace != nil {
		p.trace.reset(p.cond, qubit)
	}
	//
	p.circ.Append(circuit.NewResetOperation(qidx))
	//
	return nil
}

// Barrier accepts and discards a scheduling barrier.  Barriers have no
// numeric meaning and never reach the artifact.
func (p *SimulatorBackend) Barrier(groups [][]circuit.BitRef) {
	// nothing to do
}

// SetCondition attaches a classical guard to the operations which follow.
func (p *SimulatorBackend) SetCondition(creg string, value uint64) {
	p.cond = &condition{creg, value}
}

// DropCondition removes the active classical guard.
func (p *SimulatorBackend) DropCondition() {
	p.cond = nil
}

// StartGate opens a custom gate invocation.  A gate whose name is in the
// basis set mutes nested expansion until the matching EndGate; an opaque
// gate outside the basis is rejected; anything else expands transparently,
// its body lowering primitive by primitive.
func (p *SimulatorBackend) StartGate(name string, args []float64, qubits []circuit.BitRef) error {
	p.invocations = append(p.invocations, name)
	//
	if !p.Listening() {
		return nil
	}
	//
	if !p.basis.ContainsKey(name) {
		if p.trace != nil {
			p.trace.startGate(name, args, qubits)
		}
		//
		if def, ok := p.gates[name]; !ok {
			// Caller protocol violation: invocation of a gate which
			// was never defined.  Expand transparently rather than
			// abort.
			log.Warnf("invocation of undefined gate %s", name)
		} else if def.Opaque {
			return errOpaqueGate(name)
		}
		// Transparent expansion: keep listening.
		return nil
	}
	// Basis-level invocation: suppress the expansion which follows.
	p.mode = mutedBy{name}
	//
	if p.trace != nil {
		p.trace.basisGate(p.cond, name, args, qubits)
	}
	//
	if p.cond != nil {
		return errConditional(name, p.cond.creg, p.cond.value)
	}
	// Ask a registered emitter for the gate's matrix, if any.  Without
	// one, the invocation is suppressed and matrix production is left to
	// a later stage.
	if emitter, ok := p.emitters[name]; ok {
		return p.emitBasisGate(emitter, name, args, qubits)
	}
	//
	return nil
}

// EndGate closes a custom gate invocation, re-arming expansion if this was
// the invocation which muted it.
func (p *SimulatorBackend) EndGate(name string, args []float64, qubits []circuit.BitRef) {
	if n := len(p.invocations); n == 0 {
		log.Warnf("end of gate %s without matching start", name)
	} else {
		if top := p.invocations[n-1]; top != name {
			log.Warnf("end of gate %s does not match innermost invocation %s",
				name, top)
		}
		//
		p.invocations = p.invocations[:n-1]
	}
	//
	if muted, ok := p.mode.(mutedBy); ok {
		if muted.gate == name {
			p.mode = listening{}
		}
		// Anything ending while muted was suppressed; nothing to echo.
		return
	}
	//
	if p.trace != nil && !p.basis.ContainsKey(name) {
		p.trace.endGate(name, args, qubits)
	}
}

// emitBasisGate resolves a basis-level invocation's qubits and appends the
// gate record supplied by its emitter.
func (p *SimulatorBackend) emitBasisGate(emitter BasisEmitter, name string,
	args []float64, qubits []circuit.BitRef) error {
	//
	indices := make([]uint, len(qubits))
	//
	for i, qubit := range qubits {
		index, ok := p.circ.Qubits().IndexOf(qubit)
		if !ok {
			return errUnknownBit("qubit", qubit)
		}
		//
		indices[i] = index
	}
	//
	if matrix, ok := emitter.Emit(name, args, indices); ok {
		p.circ.Append(circuit.NewGateOperation(basisGateName(name, args), indices, matrix))
	}
	//
	return nil
}

// basisGateName renders the emitted name of a basis-level gate invocation,
// in the same convention U uses for its parameters.
func basisGateName(name string, args []float64) string {
	if len(args) == 0 {
		return name
	}
	//
	strs := make([]string, len(args))
	//
	for i, arg := range args {
		strs[i] = formatParam(arg)
	}
	//
	return fmt.Sprintf("%s(%s)", name, strings.Join(strs, ","))
}
