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
	"errors"
	"fmt"

	"github.com/yeahalrightcool/go-qunroll/pkg/circuit"
)

// Code classifies the ways a lowering pass can fail.  Every failure is fatal
// to the pass: nothing is retried and nothing already appended to the
// artifact is rolled back.
type Code uint8

const (
	// InvalidRegisterSize indicates a register was declared with a
	// negative size.
	InvalidRegisterSize Code = iota
	// UnknownBitReference indicates an operation referenced a bit of a
	// register which was never declared.
	UnknownBitReference
	// UnsupportedConditionalOperation indicates a gate was applied under
	// a classical guard, which the numeric backend cannot represent.
	UnsupportedConditionalOperation
	// OpaqueGateNotInBasis indicates an opaque gate was invoked whose
	// name is not in the basis set, leaving it with neither an expansion
	// nor a direct emission.
	OpaqueGateNotInBasis
)

func (p Code) String() string {
	switch p {
	case InvalidRegisterSize:
		return "invalid register size"
	case UnknownBitReference:
		return "unknown bit reference"
	case UnsupportedConditionalOperation:
		return "unsupported conditional operation"
	case OpaqueGateNotInBasis:
		return "opaque gate not in basis"
	default:
		panic(fmt.Sprintf("unknown error code %d", p))
	}
}

// Error is a structured lowering failure which retains its classification
// alongside a human-readable message.
type Error struct {
	code Code
	msg  string
}

// Code returns the classification of this failure.
func (p *Error) Code() Code {
	return p.code
}

// Error implements the error interface.
func (p *Error) Error() string {
	return p.msg
}

// CodeOf extracts the classification from an error produced by this package,
// if it carries one.
func CodeOf(err error) (Code, bool) {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.code, true
	}
	//
	return 0, false
}

func errInvalidRegisterSize(kind string, name string, size int) error {
	return &Error{InvalidRegisterSize,
		fmt.Sprintf("%s %s declared with invalid size %d", kind, name, size)}
}

func errUnknownBit(kind string, ref circuit.BitRef) error {
	return &Error{UnknownBitReference,
		fmt.Sprintf("reference to unregistered %s %s", kind, ref)}
}

func errConditional(what string, creg string, value uint64) error {
	return &Error{UnsupportedConditionalOperation,
		fmt.Sprintf("cannot lower %s under condition if(%s==%d)", what, creg, value)}
}

func errOpaqueGate(name string) error {
	return &Error{OpaqueGateNotInBasis,
		fmt.Sprintf("opaque gate %s not in basis", name)}
}
