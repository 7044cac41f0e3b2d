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
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
)

const epsilon = 1e-12

func Test_Register_01(t *testing.T) {
	backend := NewSimulatorBackend()
	// Indices must be dense, contiguous and order-stable across registers.
	checkOk(t, backend.QReg("a", 2))
	checkOk(t, backend.QReg("b", 3))
	//
	expected := map[circuit.BitRef]uint{
		circuit.NewBitRef("a", 0): 0,
		circuit.NewBitRef("a", 1): 1,
		circuit.NewBitRef("b", 0): 2,
		circuit.NewBitRef("b", 1): 3,
		circuit.NewBitRef("b", 2): 4,
	}
	//
	for ref, index := range expected {
		if actual, ok := backend.Circuit().Qubits().IndexOf(ref); !ok || actual != index {
			t.Errorf("expected index %d for %s, got %d (found=%v)", index, ref, actual, ok)
		}
	}
	//
	if backend.Circuit().NumQubits() != 5 {
		t.Errorf("expected 5 qubits, got %d", backend.Circuit().NumQubits())
	}
}

func Test_Register_02(t *testing.T) {
	backend := NewSimulatorBackend()
	// Qubit and classical-bit index spaces are independent.
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.CReg("c", 2))
	//
	if index, ok := backend.Circuit().Cbits().IndexOf(circuit.NewBitRef("c", 0)); !ok || index != 0 {
		t.Errorf("classical indices must start from zero, got %d", index)
	}
}

func Test_Register_03(t *testing.T) {
	backend := NewSimulatorBackend()
	//
	checkCode(t, backend.QReg("q", -1), InvalidRegisterSize)
	checkCode(t, backend.CReg("c", -3), InvalidRegisterSize)
	// Failed registrations contribute nothing.
	if backend.Circuit().NumQubits() != 0 || backend.Circuit().NumCbits() != 0 {
		t.Errorf("failed registration mutated the index spaces")
	}
}

func Test_Unitary_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	// U(0,0,0) lowers to a single identity gate record.
	checkOk(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 0)))
	//
	circ := backend.Circuit()
	if circ.NumOperations() != 1 {
		t.Fatalf("expected 1 operation, got %d", circ.NumOperations())
	}
	//
	op := circ.Operation(0)
	if op.Kind() != circuit.OpGate || op.Size() != 1 {
		t.Errorf("unexpected record: %s", op)
	}
	//
	if !op.Matrix().EqualWithin(circuit.IdentityMatrix(2), epsilon) {
		t.Errorf("U(0,0,0) is not the identity: %s", op.Matrix())
	}
	//
	if !strings.HasPrefix(op.Name(), "U(") {
		t.Errorf("unexpected gate name %s", op.Name())
	}
}

func Test_Unitary_02(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	// Lowering U adds it to the basis set.
	checkOk(t, backend.U(math.Pi, 0, math.Pi, circuit.NewBitRef("q", 1)))
	//
	checkBasisContains(t, backend, "U")
	//
	if op := backend.Circuit().Operation(0); op.Qubits()[0] != 1 {
		t.Errorf("expected qubit index 1, got %d", op.Qubits()[0])
	}
}

func Test_Unitary_03(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	// Unregistered references fail fast.
	checkCode(t, backend.U(0, 0, 0, circuit.NewBitRef("r", 0)), UnknownBitReference)
	checkCode(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 5)), UnknownBitReference)
	//
	if backend.Circuit().NumOperations() != 0 {
		t.Errorf("failed lowering appended a record")
	}
}

func Test_ControlledNot_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.CX(circuit.NewBitRef("q", 0), circuit.NewBitRef("q", 1)))
	//
	op := backend.Circuit().Operation(0)
	// Control index must come first.
	if op.Name() != "CX" || op.Qubits()[0] != 0 || op.Qubits()[1] != 1 {
		t.Errorf("unexpected CX record: %s", op)
	}
	//
	if !op.Matrix().EqualWithin(circuit.ControlledNotMatrix(), epsilon) {
		t.Errorf("unexpected CX matrix: %s", op.Matrix())
	}
	//
	checkBasisContains(t, backend, "CX")
}

func Test_ControlledNot_02(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	// Reversed argument order reverses the index list.
	checkOk(t, backend.CX(circuit.NewBitRef("q", 1), circuit.NewBitRef("q", 0)))
	//
	op := backend.Circuit().Operation(0)
	if op.Qubits()[0] != 1 || op.Qubits()[1] != 0 {
		t.Errorf("unexpected index order: %v", op.Qubits())
	}
}

func Test_Condition_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.CReg("c", 1))
	//
	backend.SetCondition("c", 1)
	// Conditioned primitives must be rejected, leaving the count intact.
	checkCode(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 0)), UnsupportedConditionalOperation)
	checkCode(t, backend.CX(circuit.NewBitRef("q", 0), circuit.NewBitRef("q", 1)),
		UnsupportedConditionalOperation)
	//
	if backend.Circuit().NumOperations() != 0 {
		t.Errorf("conditioned gate reached the artifact")
	}
	// Dropping the condition re-enables lowering.
	backend.DropCondition()
	checkOk(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 0)))
	//
	if _, _, active := backend.ActiveCondition(); active {
		t.Errorf("condition still active after drop")
	}
}

func Test_Condition_02(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	checkOk(t, backend.CReg("c", 1))
	//
	backend.SetCondition("c", 1)
	// Measurement and reset are permitted under a classical guard.
	checkOk(t, backend.Measure(circuit.NewBitRef("q", 0), circuit.NewBitRef("c", 0)))
	checkOk(t, backend.Reset(circuit.NewBitRef("q", 0)))
	//
	if backend.Circuit().NumOperations() != 2 {
		t.Errorf("expected 2 operations, got %d", backend.Circuit().NumOperations())
	}
}

func Test_Condition_03(t *testing.T) {
	backend := NewSimulatorBackend("g")
	checkOk(t, backend.QReg("q", 1))
	backend.SetCondition("c", 0)
	// A conditioned basis-level invocation fails like a conditioned
	// primitive.
	err := backend.StartGate("g", nil, []circuit.BitRef{circuit.NewBitRef("q", 0)})
	checkCode(t, err, UnsupportedConditionalOperation)
}

func Test_Measure_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.CReg("c", 2))
	//
	checkOk(t, backend.Measure(circuit.NewBitRef("q", 1), circuit.NewBitRef("c", 0)))
	//
	op := backend.Circuit().Operation(0)
	if op.Kind() != circuit.OpMeasure || op.Qubits()[0] != 1 || op.Cbits()[0] != 0 {
		t.Errorf("unexpected measurement record: %s", op)
	}
}

func Test_Measure_02(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	//
	checkCode(t, backend.Measure(circuit.NewBitRef("q", 0), circuit.NewBitRef("c", 0)),
		UnknownBitReference)
}

func Test_Reset_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	checkOk(t, backend.Reset(circuit.NewBitRef("q", 0)))
	//
	if op := backend.Circuit().Operation(0); op.Kind() != circuit.OpReset {
		t.Errorf("unexpected record: %s", op)
	}
}

func Test_Barrier_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 2))
	//
	backend.Barrier([][]circuit.BitRef{
		{circuit.NewBitRef("q", 0)},
		{circuit.NewBitRef("q", 1)},
	})
	// Barriers are accepted and discarded.
	if backend.Circuit().NumOperations() != 0 || backend.Circuit().NumQubits() != 2 {
		t.Errorf("barrier affected the artifact")
	}
}

func Test_Expansion_01(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("h", GateDefinition{NumQubits: 1})
	//
	q0 := circuit.NewBitRef("q", 0)
	// A gate outside the basis expands transparently.
	checkOk(t, backend.StartGate("h", nil, []circuit.BitRef{q0}))
	//
	if !backend.Listening() {
		t.Fatalf("transparent expansion muted the backend")
	}
	//
	checkOk(t, backend.U(math.Pi/2, 0, math.Pi, q0))
	backend.EndGate("h", nil, []circuit.BitRef{q0})
	//
	if backend.Circuit().NumOperations() != 1 {
		t.Errorf("nested primitive did not lower")
	}
}

func Test_Expansion_02(t *testing.T) {
	backend := NewSimulatorBackend("h")
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("h", GateDefinition{NumQubits: 1})
	//
	q0 := circuit.NewBitRef("q", 0)
	// A basis gate mutes its expansion entirely.
	checkOk(t, backend.StartGate("h", nil, []circuit.BitRef{q0}))
	//
	if backend.Listening() {
		t.Fatalf("basis invocation left the backend listening")
	}
	//
	checkOk(t, backend.U(math.Pi/2, 0, math.Pi, q0))
	checkOk(t, backend.CX(q0, q0))
	//
	if backend.Circuit().NumOperations() != 0 {
		t.Errorf("muted primitives reached the artifact")
	}
	// The matching EndGate re-arms lowering.
	backend.EndGate("h", nil, []circuit.BitRef{q0})
	//
	if !backend.Listening() {
		t.Fatalf("matching EndGate did not re-arm")
	}
	//
	checkOk(t, backend.U(0, 0, 0, q0))
	//
	if backend.Circuit().NumOperations() != 1 {
		t.Errorf("lowering did not resume after EndGate")
	}
}

func Test_Expansion_03(t *testing.T) {
	backend := NewSimulatorBackend("g")
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("g", GateDefinition{NumQubits: 1})
	backend.DefineGate("h", GateDefinition{NumQubits: 1})
	//
	q0 := circuit.NewBitRef("q", 0)
	// Gates nested inside a muted invocation never re-mute or re-arm.
	checkOk(t, backend.StartGate("g", nil, []circuit.BitRef{q0}))
	checkOk(t, backend.StartGate("h", nil, []circuit.BitRef{q0}))
	checkOk(t, backend.U(0, 0, 0, q0))
	backend.EndGate("h", nil, []circuit.BitRef{q0})
	//
	if backend.Listening() {
		t.Fatalf("inner EndGate re-armed the backend")
	}
	//
	backend.EndGate("g", nil, []circuit.BitRef{q0})
	//
	if !backend.Listening() {
		t.Fatalf("outer EndGate did not re-arm")
	}
	//
	if backend.Circuit().NumOperations() != 0 {
		t.Errorf("muted nested primitive reached the artifact")
	}
}

func Test_Expansion_04(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	// An opaque gate outside the basis has no expansion to offer.
	backend.DefineGate("magic", GateDefinition{Opaque: true, NumQubits: 1})
	//
	err := backend.StartGate("magic", nil, []circuit.BitRef{circuit.NewBitRef("q", 0)})
	checkCode(t, err, OpaqueGateNotInBasis)
}

func Test_Expansion_05(t *testing.T) {
	backend := NewSimulatorBackend("magic")
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("magic", GateDefinition{Opaque: true, NumQubits: 1})
	// The same opaque gate is fine once its name is in the basis.
	checkOk(t, backend.StartGate("magic", nil, []circuit.BitRef{circuit.NewBitRef("q", 0)}))
	backend.EndGate("magic", nil, []circuit.BitRef{circuit.NewBitRef("q", 0)})
	//
	if !backend.Listening() {
		t.Errorf("backend still muted after opaque basis invocation")
	}
}

func Test_Expansion_06(t *testing.T) {
	backend := NewSimulatorBackend()
	checkOk(t, backend.QReg("q", 1))
	//
	q0 := circuit.NewBitRef("q", 0)
	// Invoking a gate which was never defined and is not in the basis is
	// a caller protocol violation, but expansion proceeds transparently.
	checkOk(t, backend.StartGate("mystery", nil, []circuit.BitRef{q0}))
	//
	if !backend.Listening() {
		t.Fatalf("undefined gate invocation muted the backend")
	}
	//
	checkOk(t, backend.U(0, 0, 0, q0))
	backend.EndGate("mystery", nil, []circuit.BitRef{q0})
	//
	if backend.Circuit().NumOperations() != 1 {
		t.Errorf("nested primitive did not lower inside undefined gate")
	}
}

func Test_Emitter_01(t *testing.T) {
	backend := NewSimulatorBackend("h")
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("h", GateDefinition{NumQubits: 1})
	//
	h := complex(1/math.Sqrt2, 0)
	hadamard := circuit.Matrix{{h, h}, {h, -h}}
	//
	backend.RegisterEmitter("h", BasisEmitterFunc(
		func(name string, args []float64, qubits []uint) (circuit.Matrix, bool) {
			return hadamard, true
		}))
	//
	q0 := circuit.NewBitRef("q", 0)
	checkOk(t, backend.StartGate("h", nil, []circuit.BitRef{q0}))
	// The emitted record replaces the muted expansion.
	checkOk(t, backend.U(math.Pi/2, 0, math.Pi, q0))
	backend.EndGate("h", nil, []circuit.BitRef{q0})
	//
	circ := backend.Circuit()
	if circ.NumOperations() != 1 {
		t.Fatalf("expected exactly the emitted record, got %d operations",
			circ.NumOperations())
	}
	//
	op := circ.Operation(0)
	if op.Name() != "h" || !op.Matrix().EqualWithin(hadamard, epsilon) {
		t.Errorf("unexpected emitted record: %s %s", op, op.Matrix())
	}
}

func Test_Emitter_02(t *testing.T) {
	backend := NewSimulatorBackend("rz")
	checkOk(t, backend.QReg("q", 1))
	backend.DefineGate("rz", GateDefinition{NumParams: 1, NumQubits: 1})
	//
	backend.RegisterEmitter("rz", BasisEmitterFunc(
		func(name string, args []float64, qubits []uint) (circuit.Matrix, bool) {
			return circuit.Matrix{
				{1, 0},
				{0, complex(math.Cos(args[0]), math.Sin(args[0]))},
			}, true
		}))
	//
	q0 := circuit.NewBitRef("q", 0)
	checkOk(t, backend.StartGate("rz", []float64{math.Pi}, []circuit.BitRef{q0}))
	backend.EndGate("rz", []float64{math.Pi}, []circuit.BitRef{q0})
	//
	op := backend.Circuit().Operation(0)
	// Basis-level names carry their parameters like U does.
	if !strings.HasPrefix(op.Name(), "rz(3.14159") {
		t.Errorf("unexpected emitted name %s", op.Name())
	}
}

func Test_Unroll_01(t *testing.T) {
	// Full traversal: a two-qubit Bell circuit via a custom h gate, with
	// measurement into a classical register.
	backend := NewSimulatorBackend()
	backend.Version("2.0")
	//
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.CReg("c", 2))
	backend.DefineGate("h", GateDefinition{NumQubits: 1})
	//
	var (
		q0 = circuit.NewBitRef("q", 0)
		q1 = circuit.NewBitRef("q", 1)
		c0 = circuit.NewBitRef("c", 0)
		c1 = circuit.NewBitRef("c", 1)
	)
	// h q[0];
	checkOk(t, backend.StartGate("h", nil, []circuit.BitRef{q0}))
	checkOk(t, backend.U(math.Pi/2, 0, math.Pi, q0))
	backend.EndGate("h", nil, []circuit.BitRef{q0})
	// cx q[0],q[1];
	checkOk(t, backend.CX(q0, q1))
	// barrier q;
	backend.Barrier([][]circuit.BitRef{{q0, q1}})
	// measure q -> c;
	checkOk(t, backend.Measure(q0, c0))
	checkOk(t, backend.Measure(q1, c1))
	//
	circ := backend.Circuit()
	// Operation count equals the number of records actually appended.
	if circ.NumOperations() != 4 || len(circ.Operations()) != 4 {
		t.Fatalf("expected 4 operations, got %d", circ.NumOperations())
	}
	//
	if circ.NumQubits() != 2 || circ.NumCbits() != 2 {
		t.Errorf("unexpected counts: %d qubits, %d cbits", circ.NumQubits(), circ.NumCbits())
	}
	//
	if _, _, active := backend.ActiveCondition(); active {
		t.Errorf("condition active at end of traversal")
	}
	//
	checkBasisContains(t, backend, "U")
	checkBasisContains(t, backend, "CX")
}

func Test_Trace_01(t *testing.T) {
	var buf bytes.Buffer
	//
	backend := NewSimulatorBackend()
	backend.SetTraceWriter(&buf)
	//
	checkOk(t, backend.QReg("q", 2))
	checkOk(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 0)))
	checkOk(t, backend.CX(circuit.NewBitRef("q", 0), circuit.NewBitRef("q", 1)))
	//
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 trace lines, got %d: %q", len(lines), buf.String())
	}
	//
	if lines[0] != "U(0.000000000000000,0.000000000000000,0.000000000000000) q[0];" {
		t.Errorf("unexpected trace line %q", lines[0])
	}
	//
	if lines[1] != "CX q[0],q[1];" {
		t.Errorf("unexpected trace line %q", lines[1])
	}
	// The echo never touches the artifact.
	if backend.Circuit().NumOperations() != 2 {
		t.Errorf("trace perturbed the operation count")
	}
}

func Test_Trace_02(t *testing.T) {
	var buf bytes.Buffer
	//
	backend := NewSimulatorBackend()
	backend.SetTraceWriter(&buf)
	//
	checkOk(t, backend.QReg("q", 1))
	backend.SetCondition("c", 1)
	// The rejected gate is still echoed with its guard, as seen in the
	// source.
	checkCode(t, backend.U(0, 0, 0, circuit.NewBitRef("q", 0)),
		UnsupportedConditionalOperation)
	//
	if !strings.HasPrefix(buf.String(), "if(c==1) U(") {
		t.Errorf("unexpected trace output %q", buf.String())
	}
}

func Test_Trace_03(t *testing.T) {
	var buf bytes.Buffer
	//
	backend := NewSimulatorBackend()
	backend.SetTraceWriter(&buf)
	//
	checkOk(t, backend.QReg("q", 1))
	checkOk(t, backend.CReg("c", 1))
	backend.SetCondition("c", 1)
	// Measurement and reset echo in source syntax, guard included.
	checkOk(t, backend.Measure(circuit.NewBitRef("q", 0), circuit.NewBitRef("c", 0)))
	checkOk(t, backend.Reset(circuit.NewBitRef("q", 0)))
	//
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 trace lines, got %d: %q", len(lines), buf.String())
	}
	//
	if lines[0] != "if(c==1) measure q[0] -> c[0];" {
		t.Errorf("unexpected trace line %q", lines[0])
	}
	//
	if lines[1] != "if(c==1) reset q[0];" {
		t.Errorf("unexpected trace line %q", lines[1])
	}
}

func Test_SetBasis_01(t *testing.T) {
	backend := NewSimulatorBackend()
	backend.SetBasis([]string{"h", "cx"})
	//
	basis := backend.Basis()
	if len(basis) != 2 || basis[0] != "h" || basis[1] != "cx" {
		t.Errorf("unexpected basis %v", basis)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkOk(t *testing.T, err error) {
	t.Helper()
	//
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkCode(t *testing.T, err error, expected Code) {
	t.Helper()
	//
	if err == nil {
		t.Fatalf("expected %s error, got none", expected)
	} else if code, ok := CodeOf(err); !ok {
		t.Fatalf("expected structured error, got %v", err)
	} else if code != expected {
		t.Fatalf("expected %s error, got %s (%v)", expected, code, err)
	}
}

func checkBasisContains(t *testing.T, backend *SimulatorBackend, name string) {
	t.Helper()
	//
	for _, gate := range backend.Basis() {
		if gate == name {
			return
		}
	}
	//
	t.Errorf("basis %v missing %s", backend.Basis(), name)
}
