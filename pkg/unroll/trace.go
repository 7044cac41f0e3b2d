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
	"strings"

	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
)

// tracePrecision is the number of decimal places used when echoing gate
// parameters on the trace channel.
const tracePrecision = 15

// tracer echoes accepted operations to a diagnostic writer in source syntax.
// It is a pure side channel: nothing written here affects the artifact, and
// a nil tracer (trace disabled) costs nothing.
type tracer struct {
	out io.Writer
}

// formatParam formats a gate parameter to the fixed trace precision.  The
// same formatting names emitted U gates, so trace output and artifact agree.
func formatParam(value float64) string {
	return fmt.Sprintf("%.*f", tracePrecision, value)
}

// condition echoes the active guard prefix, if one is set.
func (p *tracer) condition(cond *condition) {
	if cond != nil {
		fmt.Fprintf(p.out, "if(%s==%d) ", cond.creg, cond.value)
	}
}

// unitary echoes a single-qubit unitary application.
func (p *tracer) unitary(cond *condition, theta, phi, lambda float64, qubit circuit.BitRef) {
	p.condition(cond)
	fmt.Fprintf(p.out, "U(%s,%s,%s) %s;\n", formatParam(theta), formatParam(phi), formatParam(lambda), qubit)
}

// cnot echoes a controlled-NOT application.
func (p *tracer) cnot(cond *condition, control, target circuit.BitRef) {
	p.condition(cond)
	fmt.Fprintf(p.out, "CX %s,%s;\n", control, target)
}

// measure echoes a measurement.
func (p *tracer) measure(cond *condition, qubit, cbit circuit.BitRef) {
	p.condition(cond)
	fmt.Fprintf(p.out, "measure %s -> %s;\n", qubit, cbit)
}

// reset echoes a qubit reset.
func (p *tracer) reset(cond *condition, qubit circuit.BitRef) {
	p.condition(cond)
	fmt.Fprintf(p.out, "reset %s;\n", qubit)
}

// startGate echoes entry into a gate which is about to be expanded.
func (p *tracer) startGate(name string, args []float64, qubits []circuit.BitRef) {
	fmt.Fprintf(p.out, "// start %s, %s, %s\n", name, p.argList(args), refList(qubits))
}

// endGate echoes exit from an expanded gate.
func (p *tracer) endGate(name string, args []float64, qubits []circuit.BitRef) {
	fmt.Fprintf(p.out, "// end %s, %s, %s\n", name, p.argList(args), refList(qubits))
}

// basisGate echoes the invocation of a basis-level gate, which suppresses
// rather than expands.
func (p *tracer) basisGate(cond *condition, name string, args []float64, qubits []circuit.BitRef) {
	p.condition(cond)
	fmt.Fprint(p.out, name)
	//
	if len(args) > 0 {
		strs := make([]string, len(args))
		//
		for i, arg := range args {
			strs[i] = formatParam(arg)
		}
		//
		fmt.Fprintf(p.out, "(%s)", strings.Join(strs, ","))
	}
	//
	fmt.Fprintf(p.out, " %s;\n", refList(qubits))
}

func (p *tracer) argList(args []float64) string {
	strs := make([]string, len(args))
	//
	for i, arg := range args {
		strs[i] = formatParam(arg)
	}
	//
	return "[" + strings.Join(strs, " ") + "]"
}

func refList(qubits []circuit.BitRef) string {
	strs := make([]string, len(qubits))
	//
	for i, qubit := range qubits {
		strs[i] = qubit.String()
	}
	//
	return strings.Join(strs, ",")
}
