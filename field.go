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

// ValueType is the type of a scanned JSON value or key.
type ValueType uint8

const (
	TypeObject ValueType = iota
	TypeArray
	TypeString
	TypeNumber
	TypeBool
	TypeNull
	TypeEmpty
	TypeError
	// TypeEnd is synthetic. It is reported when a container is closed
	// and never corresponds to a value in the input.
	TypeEnd
)

// String returns the type as a string.
func (t ValueType) String() string {
	switch t {
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	case TypeEmpty:
		return "empty"
	case TypeError:
		return "error"
	case TypeEnd:
		return "end"
	}
	return "(invalid)"
}

// IsContainer returns whether t is an object or array.
func (t ValueType) IsContainer() bool {
	return t == TypeObject || t == TypeArray
}

// IsScalar returns whether t is a string, number, bool or null.
func (t ValueType) IsScalar() bool {
	switch t {
	case TypeString, TypeNumber, TypeBool, TypeNull:
		return true
	}
	return false
}

// Field references a region of the buffer owned by a Reader.
// A Field never owns data. It is only valid while the Reader
// has not been restarted with Begin and the buffer is unmodified.
type Field struct {
	Begin  int
	Length int
	Type   ValueType
}

var (
	// EmptyField is a zero length null field.
	EmptyField = Field{Type: TypeNull}

	// ErrorField is a zero length error field.
	ErrorField = Field{Type: TypeError}
)

// End returns the offset just past the field.
func (f Field) End() int {
	return f.Begin + f.Length
}

// marker returns a zero length field of type t at offset off.
func marker(off int, t ValueType) Field {
	return Field{Begin: off, Type: t}
}
