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

import (
	"bytes"
	"fmt"
	"strconv"
)

// Reader is a pull parser over a single JSON document.
//
// Each call to Read consumes one key/value pair, or one closing bracket,
// and returns fields that reference the buffer given to Begin. Containers
// are not read recursively: when a value is an object or array it is
// pushed on an internal stack and the following calls to Read return its
// members, ending with an End pair. Memory use is bounded by MaxDepth.
//
// A Reader must not be used concurrently. The buffer belongs to the
// Reader until the document has been read or Begin is called again.
type Reader struct {
	buf []byte
	pos int

	stack stack
	// elems has bit i set once the container in stack slot i
	// has produced its first element.
	elems uint64
	err   error

	escapeStrings    bool
	strictNumbers    bool
	strictSeparators bool
	trailingCommas   bool
	maxDepth         int
}

// NewReader returns a Reader configured with the supplied options.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{maxDepth: MaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin starts reading the document in buf.
// The root of the document must be an object or array,
// false is returned for anything else.
// Fields returned from an earlier session are invalid after Begin.
func (r *Reader) Begin(buf []byte) bool {
	r.buf = buf
	r.pos = 0
	r.err = nil
	r.elems = 0
	r.stack.reset(r.maxDepth)

	pos := skipWhitespace(buf, 0)
	if pos >= len(buf) {
		r.err = &SyntaxError{Offset: pos, Err: ErrInvalidRoot, Msg: "empty document"}
		return false
	}
	t := classify(buf[pos])
	if !t.IsContainer() {
		r.err = &SyntaxError{Offset: pos, Err: ErrInvalidRoot}
		return false
	}
	r.stack.push(t)
	r.pos = pos + 1
	return true
}

// BeginString starts reading a copy of s.
func (r *Reader) BeginString(s string) bool {
	return r.Begin([]byte(s))
}

// Read returns the next key and value of the open container.
//
// Inside objects key is the member name. Inside arrays key is a
// zero length field of TypeArray. When a container is closed the
// value has TypeEnd and key has the type of the closed container.
// When the value is an object or array, it is a zero length field
// of that type and the following calls read its content.
//
// more is false when the document has been fully read or an error
// occurred. After an error every call returns false; see Err.
func (r *Reader) Read() (key, value Field, more bool) {
	if r.err != nil {
		return ErrorField, ErrorField, false
	}
	if r.stack.empty() {
		return EmptyField, EmptyField, false
	}
	switch r.stack.peek() {
	case TypeObject:
		return r.readObject()
	case TypeArray:
		return r.readArray()
	case TypeError:
		return ErrorField, ErrorField, false
	}
	return EmptyField, EmptyField, false
}

func (r *Reader) readObject() (key, value Field, more bool) {
	closed, ok := r.nextElement('}')
	if !ok {
		return r.errorPair()
	}
	if closed {
		return marker(r.pos-1, TypeObject), marker(r.pos-1, TypeEnd), true
	}
	pos := r.pos
	if r.buf[pos] != '"' {
		return r.fail(pos, ErrSyntax, "expected string key")
	}
	key, next, ok := r.scanStringAt(pos)
	if !ok {
		return r.fail(next, ErrUnexpectedEnd, "unterminated key")
	}
	pos = skipWhitespace(r.buf, next)
	if pos >= len(r.buf) {
		return r.fail(pos, ErrUnexpectedEnd, "expected ':'")
	}
	if r.buf[pos] != ':' {
		return r.fail(pos, ErrSyntax, "expected ':'")
	}
	r.pos = pos + 1
	value, ok = r.readValue()
	if !ok {
		return r.errorPair()
	}
	return key, value, true
}

func (r *Reader) readArray() (key, value Field, more bool) {
	closed, ok := r.nextElement(']')
	if !ok {
		return r.errorPair()
	}
	if closed {
		return marker(r.pos-1, TypeArray), marker(r.pos-1, TypeEnd), true
	}
	value, ok = r.readValue()
	if !ok {
		return r.errorPair()
	}
	return marker(value.Begin, TypeArray), value, true
}

// nextElement moves the cursor to the start of the next element of the
// open container, consuming a separating comma if present. If the
// closing bracket is found instead it is consumed, the container is
// popped and closed is returned as true.
func (r *Reader) nextElement(closing byte) (closed, ok bool) {
	pos := skipWhitespace(r.buf, r.pos)
	if pos >= len(r.buf) {
		r.fail(pos, ErrUnexpectedEnd, "unclosed container")
		return false, false
	}
	bit := uint64(1) << uint(r.stack.top)
	started := r.elems&bit != 0
	comma := false
	switch c := r.buf[pos]; {
	case c == ',':
		if !started && r.strictSeparators {
			r.fail(pos, ErrSyntax, "unexpected ','")
			return false, false
		}
		comma = true
		pos = skipWhitespace(r.buf, pos+1)
		if pos >= len(r.buf) {
			r.fail(pos, ErrUnexpectedEnd, "expected value")
			return false, false
		}
	case c == closing:
	case started && r.strictSeparators:
		r.fail(pos, ErrSyntax, fmt.Sprintf("expected ',' or '%c'", closing))
		return false, false
	}

	if r.buf[pos] == closing {
		if comma && !r.trailingCommas {
			r.fail(pos, ErrSyntax, "expected value after ','")
			return false, false
		}
		r.stack.pop()
		r.pos = pos + 1
		return true, true
	}
	r.elems |= bit
	r.pos = pos
	return false, true
}

// readValue reads the value at the cursor.
// Objects and arrays are pushed on the stack.
func (r *Reader) readValue() (Field, bool) {
	pos := skipWhitespace(r.buf, r.pos)
	if pos >= len(r.buf) {
		r.fail(pos, ErrUnexpectedEnd, "expected value")
		return ErrorField, false
	}
	var (
		f    Field
		next int
		ok   = true
	)
	switch t := classify(r.buf[pos]); t {
	case TypeString:
		f, next, ok = r.scanStringAt(pos)
		if !ok {
			r.fail(next, ErrUnexpectedEnd, "unterminated string")
			return ErrorField, false
		}
	case TypeNumber:
		f, next = scanNumber(r.buf, pos)
		if r.strictNumbers && !validNumber(r.buf[f.Begin:f.End()]) {
			r.fail(pos, ErrNumber, "")
			return ErrorField, false
		}
	case TypeBool:
		f, next, ok = scanBool(r.buf, pos)
	case TypeNull:
		f, next, ok = scanNull(r.buf, pos)
	case TypeObject, TypeArray:
		if !r.stack.push(t) {
			r.fail(pos, ErrDepth, "")
			return ErrorField, false
		}
		r.elems &^= uint64(1) << uint(r.stack.top)
		r.pos = pos + 1
		return marker(pos, t), true
	default:
		r.fail(pos, ErrSyntax, "expected value")
		return ErrorField, false
	}
	if !ok {
		r.fail(pos, ErrSyntax, "invalid literal")
		return ErrorField, false
	}
	r.pos = next
	return f, true
}

func (r *Reader) scanStringAt(pos int) (Field, int, bool) {
	if r.escapeStrings {
		return decodeString(r.buf, pos)
	}
	return scanString(r.buf, pos)
}

// fail ends the session. All further reads return no data.
func (r *Reader) fail(off int, err error, msg string) (key, value Field, more bool) {
	r.err = &SyntaxError{Offset: off, Msg: msg, Err: err}
	r.stack.clear()
	r.pos = off
	return r.errorPair()
}

// errorPair returns the error fields for the current failure.
func (r *Reader) errorPair() (key, value Field, more bool) {
	f := ErrorField
	if se, ok := r.err.(*SyntaxError); ok {
		f.Begin = se.Offset
		if se.Offset < len(r.buf) {
			f.Length = 1
		}
	}
	return f, f, false
}

// Err returns the error that ended the session, if any.
func (r *Reader) Err() error {
	return r.err
}

// Depth returns the number of open containers.
func (r *Reader) Depth() int {
	return r.stack.depth()
}

// Offset returns the cursor position in the buffer.
func (r *Reader) Offset() int {
	return r.pos
}

// Skip reads until the innermost open container has been closed.
// It returns false if the document ended or failed first.
func (r *Reader) Skip() bool {
	d := r.Depth()
	if d == 0 {
		return false
	}
	for {
		_, value, more := r.Read()
		if !more {
			return false
		}
		if value.Type == TypeEnd && r.Depth() < d {
			return true
		}
	}
}

// ReadStrings appends the elements of the open array to dst, converted
// with ParseString, and returns when the array has been closed.
// Nested containers are skipped.
func (r *Reader) ReadStrings(dst []string) ([]string, bool) {
	for {
		key, value, more := r.Read()
		if !more {
			return dst, false
		}
		switch {
		case IsArrayEnd(key, value):
			return dst, true
		case IsObjectEnd(key, value):
			// Called inside an object: it is now closed.
			return dst, false
		case value.Type.IsContainer():
			if !r.Skip() {
				return dst, false
			}
		default:
			dst = append(dst, r.ParseString(value))
		}
	}
}

// IsObjectEnd returns whether the pair closes an object.
func IsObjectEnd(key, value Field) bool {
	return key.Type == TypeObject && value.Type == TypeEnd
}

// IsArrayEnd returns whether the pair closes an array.
func IsArrayEnd(key, value Field) bool {
	return key.Type == TypeArray && value.Type == TypeEnd
}

// IsObjectEnd returns whether the pair closes an object.
func (r *Reader) IsObjectEnd(key, value Field) bool {
	return IsObjectEnd(key, value)
}

// IsArrayEnd returns whether the pair closes an array.
func (r *Reader) IsArrayEnd(key, value Field) bool {
	return IsArrayEnd(key, value)
}

// FieldBytes returns the bytes referenced by f without copying.
// The slice aliases the reader's buffer.
func (r *Reader) FieldBytes(f Field) []byte {
	if f.Begin < 0 || f.Length < 0 || f.End() > len(r.buf) {
		return nil
	}
	return r.buf[f.Begin:f.End():f.End()]
}

// FieldStr returns the text referenced by f.
func (r *Reader) FieldStr(f Field) string {
	return string(r.FieldBytes(f))
}

// IsFieldName compares f to name, ignoring case.
func (r *Reader) IsFieldName(f Field, name string) bool {
	b := r.FieldBytes(f)
	if len(b) != len(name) {
		// Case folding may change the length of non-ASCII text.
		return hasNonASCII(name) && bytes.EqualFold(b, []byte(name))
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 0x80 || name[i] >= 0x80 {
			return bytes.EqualFold(b, []byte(name))
		}
		if lower(c) != lower(name[i]) {
			return false
		}
	}
	return true
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}
	return false
}

// ParseBool returns true if f is "true" in any case.
func (r *Reader) ParseBool(f Field) bool {
	v, _ := r.Bool(f)
	return v
}

// ParseInt returns f as an int32 range integer, or 0 if it cannot be converted.
func (r *Reader) ParseInt(f Field) int {
	v, err := strconv.ParseInt(r.FieldStr(f), 10, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

// ParseLong returns f as an int64, or 0 if it cannot be converted.
func (r *Reader) ParseLong(f Field) int64 {
	v, err := strconv.ParseInt(r.FieldStr(f), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseFloat returns f as a float64, or 0 if it cannot be converted.
func (r *Reader) ParseFloat(f Field) float64 {
	v, err := strconv.ParseFloat(r.FieldStr(f), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseString returns a copy of the text referenced by f.
// Null values return the empty string.
func (r *Reader) ParseString(f Field) string {
	if f.Type == TypeNull {
		return ""
	}
	return r.FieldStr(f)
}

// Bool returns the bool value of f.
func (r *Reader) Bool(f Field) (bool, error) {
	b := r.FieldBytes(f)
	switch {
	case bytes.EqualFold(b, []byte("true")):
		return true, nil
	case bytes.EqualFold(b, []byte("false")):
		return false, nil
	}
	return false, fmt.Errorf("value is not bool, but %v", f.Type)
}

// Int64 returns the integer value of f.
func (r *Reader) Int64(f Field) (int64, error) {
	if f.Type != TypeNumber {
		return 0, fmt.Errorf("unable to convert type %v to integer", f.Type)
	}
	return strconv.ParseInt(r.FieldStr(f), 10, 64)
}

// Float64 returns the float value of f.
func (r *Reader) Float64(f Field) (float64, error) {
	if f.Type != TypeNumber {
		return 0, fmt.Errorf("unable to convert type %v to float", f.Type)
	}
	return strconv.ParseFloat(r.FieldStr(f), 64)
}
