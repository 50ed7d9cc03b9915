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
	"strings"
	"testing"
)

const walkDoc = `{"name":"build","skip":{"deep":[1,2,3]},"list":[{"a":1},"x"],"last":false}`

func TestWalk(t *testing.T) {
	var visited []string
	err := Walk([]byte(walkDoc), func(r *Reader, key, value Field) error {
		if value.Type == TypeEnd {
			t.Fatal("end pairs should not be visited")
		}
		name := r.FieldStr(key)
		if key.Type == TypeArray {
			name = "[]"
		}
		visited = append(visited, name+"="+value.Type.String())
		if name == "skip" {
			return SkipContainer
		}
		if value.Type == TypeString {
			// Ignored for scalars.
			return SkipContainer
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "name=string skip=object list=array []=object a=number []=string last=bool"
	if got := strings.Join(visited, " "); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestWalkStop(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0
	err := Walk([]byte(walkDoc), func(r *Reader, key, value Field) error {
		calls++
		if r.IsFieldName(key, "list") {
			return errStop
		}
		return nil
	})
	if err != errStop {
		t.Fatalf("got %v, want %v", err, errStop)
	}
	if calls != 7 {
		t.Fatalf("got %d calls, want 7", calls)
	}
}

func TestWalkSyntaxError(t *testing.T) {
	calls := 0
	err := Walk([]byte(`{"a":1,"b":}`), func(r *Reader, key, value Field) error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("got %v, want %v", err, ErrSyntax)
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}

	err = Walk([]byte(`"a"`), func(r *Reader, key, value Field) error { return nil })
	if !errors.Is(err, ErrInvalidRoot) {
		t.Fatalf("got %v, want %v", err, ErrInvalidRoot)
	}
}

func TestWalkOptions(t *testing.T) {
	var keys []string
	err := Walk([]byte(`{"a\u0062":1}`), func(r *Reader, key, value Field) error {
		keys = append(keys, r.FieldStr(key))
		return nil
	}, WithEscapedStrings(true))
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "ab" {
		t.Fatalf("got %q", keys)
	}
	err = Walk([]byte(`[[[]]]`), func(r *Reader, key, value Field) error { return nil }, WithMaxDepth(2))
	if !errors.Is(err, ErrDepth) {
		t.Fatalf("got %v, want %v", err, ErrDepth)
	}
}
