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
	"errors"
	"fmt"
)

var (
	// ErrSyntax is reported when a structural token was expected
	// but something else was found.
	ErrSyntax = errors.New("syntax error")

	// ErrUnexpectedEnd is reported when the buffer ends inside a document.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrDepth is reported when the document nests deeper than the
	// configured maximum depth.
	ErrDepth = errors.New("maximum nesting depth exceeded")

	// ErrNumber is reported for malformed numbers when strict numbers are enabled.
	ErrNumber = errors.New("malformed number")

	// ErrInvalidRoot is reported by Begin when the document root is not an object or array.
	ErrInvalidRoot = errors.New("document root must be an object or array")
)

// A SyntaxError describes where parsing stopped.
type SyntaxError struct {
	// Offset of the offending byte in the buffer.
	Offset int
	// Msg is a short description of what was expected.
	Msg string
	// Err is one of the sentinel errors in this package.
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("pulljson: %v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("pulljson: %v at offset %d: %s", e.Err, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
