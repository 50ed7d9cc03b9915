/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pulljson

// MaxDepth is the maximum number of simultaneously open containers.
const MaxDepth = 64

// stack records the types of the currently open containers.
// Slots are filled from the end: top decreases on push and
// increases on pop. top == MaxDepth means nothing is open.
type stack struct {
	slots [MaxDepth]ValueType
	top   int
	// floor is the lowest usable slot. It is above zero
	// when a depth below MaxDepth has been configured.
	floor int
}

func (s *stack) reset(depth int) {
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}
	s.top = MaxDepth
	s.floor = MaxDepth - depth
}

// clear closes every container. Used when the session fails.
func (s *stack) clear() {
	s.top = MaxDepth
}

func (s *stack) empty() bool {
	return s.top >= MaxDepth
}

func (s *stack) full() bool {
	return s.top <= s.floor
}

func (s *stack) depth() int {
	return MaxDepth - s.top
}

func (s *stack) push(t ValueType) bool {
	if s.full() {
		return false
	}
	s.top--
	s.slots[s.top] = t
	return true
}

func (s *stack) pop() {
	if !s.empty() {
		s.top++
	}
}

// peek returns the type of the innermost open container.
func (s *stack) peek() ValueType {
	if s.empty() {
		return TypeEmpty
	}
	return s.slots[s.top]
}
