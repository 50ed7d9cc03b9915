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

// Package pulljson implements a single pass JSON pull parser and an
// indented JSON writer.
//
// The Reader walks a fully resident document one key/value pair at a time,
// tracking open objects and arrays on a fixed size stack instead of
// recursing. Returned fields reference the input buffer, and strings can
// optionally be unescaped in place, so reading allocates nothing.
//
// The Writer emits one entry per line from an explicit sequence of
// begin/end/field calls.
package pulljson

// Validate reads the document in b to the end.
// Only whitespace may follow the root container.
// b is modified if escaped strings are enabled.
func Validate(b []byte, opts ...ReaderOption) error {
	r := NewReader(opts...)
	if !r.Begin(b) {
		return r.Err()
	}
	for {
		_, _, more := r.Read()
		if !more {
			break
		}
	}
	if err := r.Err(); err != nil {
		return err
	}
	if pos := skipWhitespace(b, r.Offset()); pos < len(b) {
		return &SyntaxError{Offset: pos, Msg: "data after document", Err: ErrSyntax}
	}
	return nil
}
