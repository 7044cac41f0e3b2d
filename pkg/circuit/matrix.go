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
	"math"
	"math/cmplx"
	"strings"
)

// Matrix is a dense, square, complex-valued matrix giving the explicit
// numeric action of a gate on the computational basis.  A gate acting on n
// qubits has a matrix of dimension 2^n.
type Matrix [][]complex128

// UnitaryMatrix computes the general single-qubit unitary parameterised by
// the three Euler angles (theta, phi, lambda):
//
//	[      cos(theta/2)         -e^{i.lambda}.sin(theta/2)    ]
//	[ e^{i.phi}.sin(theta/2)  e^{i.(phi+lambda)}.cos(theta/2) ]
func UnitaryMatrix(theta, phi, lambda float64) Matrix {
	var (
		cos = complex(math.Cos(theta/2), 0)
		sin = complex(math.Sin(theta/2), 0)
	)
	//
	return Matrix{
		{cos, -cmplx.Exp(complex(0, lambda)) * sin},
		{cmplx.Exp(complex(0, phi)) * sin, cmplx.Exp(complex(0, phi+lambda)) * cos},
	}
}

// ControlledNotMatrix returns the matrix of the two-qubit controlled-NOT
// gate, with the control qubit as the low-order bit of the basis index: the
// states |01> and |11> exchange, all others are untouched.
func ControlledNotMatrix() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
	}
}

// IdentityMatrix returns the identity matrix of a given dimension.
func IdentityMatrix(dim uint) Matrix {
	matrix := make(Matrix, dim)
	//
	for i := range matrix {
		matrix[i] = make([]complex128, dim)
		matrix[i][i] = 1
	}
	//
	return matrix
}

// Dimension returns the number of rows (equally, columns) of this matrix.
func (p Matrix) Dimension() uint {
	return uint(len(p))
}

// EqualWithin checks whether two matrices agree elementwise to within a given
// tolerance.  Matrices of different dimension are never equal.
func (p Matrix) EqualWithin(other Matrix, eps float64) bool {
	if len(p) != len(other) {
		return false
	}
	//
	for i := range p {
		if len(p[i]) != len(other[i]) {
			return false
		}
		//
		for j := range p[i] {
			if cmplx.Abs(p[i][j]-other[i][j]) > eps {
				return false
			}
		}
	}
	//
	return true
}

func (p Matrix) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, row := range p {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		for j, entry := range row {
			if j != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(fmt.Sprintf("%v", entry))
		}
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
