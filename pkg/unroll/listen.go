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

// listenMode models the expansion controller as an explicit two-state
// variant, rather than a boolean with a side string, so that a mute marker
// can never exist without the machine actually being muted.  In the
// listening state, reported primitives are lowered into the artifact; in the
// muted state they are suppressed, because a basis-level gate invocation is
// already accounting for them.
type listenMode interface {
	isListenMode()
}

// listening is the default mode, in which primitives lower normally.
type listening struct{}

// mutedBy records that expansion is suppressed until the named gate's
// invocation closes.
type mutedBy struct {
	gate string
}

func (listening) isListenMode() {}

func (mutedBy) isListenMode() {}
