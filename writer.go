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
	"fmt"
	"strconv"
)

const defaultIndent = "  "

// Writer emits indented JSON text, one entry per line.
//
// Documents are built from an explicit sequence of calls:
//
//	w := NewWriter()
//	w.Begin()
//	w.WriteString("name", "stage", false)
//	w.BeginArray("files")
//	w.WriteElement("a.png", true)
//	w.EndArray(true)
//	text := w.End()
//
// The last argument of each call tells whether the entry is the last in
// its container, which controls the separating comma. The Writer does
// not check that calls are balanced.
//
// BeginObject and BeginArray open an array element when the key is empty,
// so an object or array member named "" cannot be written. Scalar members
// named "" are written as usual.
type Writer struct {
	buf        []byte
	indent     int
	indentUnit string
}

// NewWriter returns a Writer configured with the supplied options.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{indentUnit: defaultIndent}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Begin discards any previous output and opens the document object.
func (w *Writer) Begin() {
	w.Reset()
	w.writeIndent()
	w.buf = append(w.buf, '{', '\n')
	w.indent++
}

// End closes the document object and returns the text.
func (w *Writer) End() string {
	w.closeLine('}', true)
	return string(w.buf)
}

// Bytes returns the output written so far.
// The slice is only valid until the next call that writes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset discards the output, keeping the allocated buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.indent = 0
}

// BeginObject opens an object member, or an array element if key is empty.
func (w *Writer) BeginObject(key string) {
	w.openLine(key, '{')
}

// EndObject closes an object.
func (w *Writer) EndObject(last bool) {
	w.closeLine('}', last)
}

// BeginArray opens an array member, or an array element if key is empty.
func (w *Writer) BeginArray(key string) {
	w.openLine(key, '[')
}

// EndArray closes an array.
func (w *Writer) EndArray(last bool) {
	w.closeLine(']', last)
}

// WriteInt writes an integer member.
func (w *Writer) WriteInt(key string, value int, last bool) {
	w.WriteLong(key, int64(value), last)
}

// WriteLong writes an int64 member.
func (w *Writer) WriteLong(key string, value int64, last bool) {
	w.writeKey(key)
	w.buf = strconv.AppendInt(w.buf, value, 10)
	w.endLine(last)
}

// WriteFloat writes a float member.
// NaN and infinities have no JSON representation and are written as null.
func (w *Writer) WriteFloat(key string, value float64, last bool) {
	w.writeKey(key)
	w.appendFloat(value, 64)
	w.endLine(last)
}

// WriteBool writes a bool member.
func (w *Writer) WriteBool(key string, value bool, last bool) {
	w.writeKey(key)
	w.buf = strconv.AppendBool(w.buf, value)
	w.endLine(last)
}

// WriteString writes a string member.
func (w *Writer) WriteString(key string, value string, last bool) {
	w.writeKey(key)
	w.appendString(value)
	w.endLine(last)
}

// WriteNull writes a null member.
func (w *Writer) WriteNull(key string, last bool) {
	w.writeKey(key)
	w.buf = append(w.buf, "null"...)
	w.endLine(last)
}

// WriteField writes a member of any supported scalar type:
// int, int32, int64, uint32, float32, float64, bool, string or nil.
// Other values are written as strings formatted with fmt.
func (w *Writer) WriteField(key string, value interface{}, last bool) {
	w.writeKey(key)
	w.appendValue(value)
	w.endLine(last)
}

// WriteElement writes a string array element.
func (w *Writer) WriteElement(value string, last bool) {
	w.writeIndent()
	w.appendString(value)
	w.endLine(last)
}

// WriteElementLong writes an int64 array element.
func (w *Writer) WriteElementLong(value int64, last bool) {
	w.writeIndent()
	w.buf = strconv.AppendInt(w.buf, value, 10)
	w.endLine(last)
}

// WriteElementFloat writes a float array element.
func (w *Writer) WriteElementFloat(value float64, last bool) {
	w.writeIndent()
	w.appendFloat(value, 64)
	w.endLine(last)
}

// WriteElementBool writes a bool array element.
func (w *Writer) WriteElementBool(value bool, last bool) {
	w.writeIndent()
	w.buf = strconv.AppendBool(w.buf, value)
	w.endLine(last)
}

func (w *Writer) appendValue(value interface{}) {
	switch v := value.(type) {
	case nil:
		w.buf = append(w.buf, "null"...)
	case int:
		w.buf = strconv.AppendInt(w.buf, int64(v), 10)
	case int32:
		w.buf = strconv.AppendInt(w.buf, int64(v), 10)
	case int64:
		w.buf = strconv.AppendInt(w.buf, v, 10)
	case uint32:
		w.buf = strconv.AppendUint(w.buf, uint64(v), 10)
	case float32:
		w.appendFloat(float64(v), 32)
	case float64:
		w.appendFloat(v, 64)
	case bool:
		w.buf = strconv.AppendBool(w.buf, v)
	case string:
		w.appendString(v)
	default:
		w.appendString(fmt.Sprint(v))
	}
}

func (w *Writer) appendFloat(v float64, bitSize int) {
	var err error
	if w.buf, err = appendFloat(w.buf, v, bitSize); err != nil {
		w.buf = append(w.buf, "null"...)
	}
}

func (w *Writer) appendString(s string) {
	w.buf = append(w.buf, '"')
	w.buf = escapeBytes(w.buf, s)
	w.buf = append(w.buf, '"')
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.buf = append(w.buf, w.indentUnit...)
	}
}

func (w *Writer) writeKey(key string) {
	w.writeIndent()
	w.appendString(key)
	w.buf = append(w.buf, ':', ' ')
}

func (w *Writer) openLine(key string, bracket byte) {
	if key == "" {
		w.writeIndent()
	} else {
		w.writeKey(key)
	}
	w.buf = append(w.buf, bracket, '\n')
	w.indent++
}

func (w *Writer) closeLine(bracket byte, last bool) {
	if w.indent > 0 {
		w.indent--
	}
	w.writeIndent()
	w.buf = append(w.buf, bracket)
	w.endLine(last)
}

func (w *Writer) endLine(last bool) {
	if !last {
		w.buf = append(w.buf, ',')
	}
	w.buf = append(w.buf, '\n')
}
