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

import "errors"

// SkipContainer can be returned by a VisitFunc for an object or array
// value to skip its content. The walk continues after the container.
var SkipContainer = errors.New("skip this container")

// VisitFunc is called by Walk for every key/value pair.
// Pairs closing a container are not visited.
// The reader can be used to extract values from the fields,
// but must not be advanced by the function.
type VisitFunc func(r *Reader, key, value Field) error

// Walk reads the document in buf and calls visit for each pair in document order.
// buf may be modified if escaped strings are enabled.
// Walk returns the first error from visit other than SkipContainer,
// or the parse error that ended the document.
func Walk(buf []byte, visit VisitFunc, opts ...ReaderOption) error {
	r := NewReader(opts...)
	if !r.Begin(buf) {
		return r.Err()
	}
	for {
		key, value, more := r.Read()
		if !more {
			return r.Err()
		}
		if value.Type == TypeEnd {
			continue
		}
		err := visit(r, key, value)
		switch {
		case err == nil:
		case err == SkipContainer && value.Type.IsContainer():
			if !r.Skip() {
				return r.Err()
			}
		case err == SkipContainer:
		default:
			return err
		}
	}
}
