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
	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
)

// BasisEmitter supplies the explicit matrix for a basis-level gate at the
// moment its invocation mutes expansion.  Without an emitter the invocation
// is merely suppressed and nothing reaches the artifact, leaving matrix
// production to some later stage; registering one lets the gate record be
// appended in place, in the basis naming convention.
type BasisEmitter interface {
	// Emit produces the matrix for an invocation of a basis gate with the
	// given parameters, acting on the given (already resolved) qubit
	// indices.  Returning false declines the invocation, in which case
	// nothing is appended.
	Emit(name string, args []float64, qubits []uint) (circuit.Matrix, bool)
}

// BasisEmitterFunc adapts a plain function into a BasisEmitter.
type BasisEmitterFunc func(name string, args []float64, qubits []uint) (circuit.Matrix, bool)

// Emit implementation for BasisEmitterFunc.
func (p BasisEmitterFunc) Emit(name string, args []float64, qubits []uint) (circuit.Matrix, bool) {
	return p(name, args, qubits)
}
