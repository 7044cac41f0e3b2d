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
package omap

import (
	"fmt"
	"strings"
)

// Map is an associative container which remembers the order in which keys
// were first inserted.  Iteration always proceeds in insertion order, making
// it suitable for building stable index spaces where the numbering must match
// the order of registration.
type Map[K comparable, V any] struct {
	items map[K]V
	order []K
}

// NewMap constructs an empty ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

// Len returns the number of bindings currently in the map.
func (p *Map[K, V]) Len() uint {
	return uint(len(p.order))
}

// ContainsKey checks whether a given key has a binding in this map.
func (p *Map[K, V]) ContainsKey(key K) bool {
	_, ok := p.items[key]
	return ok
}

// Get returns the value bound to a given key, if one exists.
func (p *Map[K, V]) Get(key K) (V, bool) {
	value, ok := p.items[key]
	return value, ok
}

// Put binds a key to a value.  A key being bound for the first time takes the
// next position in the iteration order; rebinding an existing key updates the
// value but never its position.
func (p *Map[K, V]) Put(key K, value V) {
	if _, ok := p.items[key]; !ok {
		p.order = append(p.order, key)
	}
	//
	p.items[key] = value
}

// Keys returns the keys of this map in insertion order.  The returned slice
// is a copy and may be retained by the caller.
func (p *Map[K, V]) Keys() []K {
	keys := make([]K, len(p.order))
	copy(keys, p.order)
	//
	return keys
}

// Iter visits every binding in insertion order, stopping early if the given
// callback returns false.
func (p *Map[K, V]) Iter(fn func(K, V) bool) {
	for _, key := range p.order {
		if !fn(key, p.items[key]) {
			return
		}
	}
}

// String produces a human-readable summary of this map, primarily for use in
// debugging and test failure messages.
func (p *Map[K, V]) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, key := range p.order {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%v=>%v", key, p.items[key]))
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
