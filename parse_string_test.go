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
	"testing"
)

func TestDecodeString(t *testing.T) {

	tests := []struct {
		name    string
		str     string
		success bool
		want    string
	}{
		{name: "simple1", str: `a`, success: true, want: `a`},
		{name: "empty", str: ``, success: true, want: ``},
		{name: "quote", str: `a\"b`, success: true, want: `a"b`},
		{name: "backslash", str: `\\`, success: true, want: `\`},
		{name: "solidus", str: `\/`, success: true, want: `/`},
		{name: "apostrophe", str: `\'`, success: true, want: `'`},
		{name: "controls", str: `\b\f\n\r\t`, success: true, want: "\b\f\n\r\t"},
		{name: "unicode-euro", str: `\u20AC`, success: true, want: "\u20ac"},
		{name: "unicode-lower", str: `caf\u00e9`, success: true, want: "caf\u00e9"},
		{name: "unicode-nul", str: `\u0000`, success: true, want: "\x00"},
		{name: "surrogate-pair", str: `\ud83d\ude00`, success: true, want: "\U0001F600"},
		{name: "lone-high", str: `\ud800x`, success: true, want: "\uFFFDx"},
		{name: "lone-low", str: `\udc00`, success: true, want: "\uFFFD"},
		{name: "high-then-char", str: `\ud83dA`, success: true, want: "\uFFFDA"},
		{name: "non-hex", str: `\uzz41`, success: true, want: "A"},
		{name: "unknown-escape", str: `\x`, success: true, want: `x`},
		{name: "unknown-escape-inner", str: `a\qb\%`, success: true, want: `aqb%`},
		{name: "raw-utf8", str: "grüße", success: true, want: "grüße"},
		{name: "unicode-too-short", str: `\u20A`, success: false},
		{name: "trailing-backslash", str: `ab\`, success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// enclose test string in quotes
			buf := []byte(fmt.Sprintf(`"%s"`, tt.str))
			if !tt.success {
				buf = buf[:len(buf)-1]
			}

			f, next, ok := decodeString(buf, 0)
			if ok != tt.success {
				t.Fatalf("decodeString() got = %v, want %v", ok, tt.success)
			}
			if !ok {
				return
			}
			got := buf[f.Begin:f.End()]
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("decodeString() got = %q, want %q", got, tt.want)
			}
			if next != len(buf) {
				t.Errorf("decodeString() next = %d, want %d", next, len(buf))
			}
			if f.Length > len(tt.str) {
				t.Errorf("decoded length %d exceeds raw length %d", f.Length, len(tt.str))
			}
		})
	}
}

// Decoding text without escapes leaves the buffer untouched.
func TestDecodeStringNoEscapes(t *testing.T) {
	for _, s := range []string{`"abc"`, `""`, `"grüße / 1"`, `"café"`} {
		buf := []byte(s)
		f, _, ok := decodeString(buf, 0)
		if !ok {
			t.Fatalf("decodeString(%s) failed", s)
		}
		if string(buf) != s {
			t.Errorf("buffer modified: %q", buf)
		}
		if f.Length != len(s)-2 {
			t.Errorf("got length %d, want %d", f.Length, len(s)-2)
		}

		raw, _, _ := scanString([]byte(s), 0)
		if raw != f {
			t.Errorf("scanString %v and decodeString %v disagree", raw, f)
		}
	}
}

// Decoding already decoded text is a no-op.
func TestDecodeStringTwice(t *testing.T) {
	buf := []byte(`"caf\u00e9 \u20ac\ud83d\ude00"`)
	f, _, ok := decodeString(buf, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	once := string(buf[f.Begin:f.End()])

	again := []byte(`"` + once + `"`)
	f2, _, ok := decodeString(again, 0)
	if !ok {
		t.Fatal("second decode failed")
	}
	if got := string(again[f2.Begin:f2.End()]); got != once {
		t.Errorf("got %q, want %q", got, once)
	}
}

func TestReaderEscapedStrings(t *testing.T) {
	buf := []byte(`{"k\u0041":"line\nbreak","tab\t":["\"q\"",1],"n":2}`)
	r := NewReader(WithEscapedStrings(true))
	if !r.Begin(buf) {
		t.Fatal(r.Err())
	}

	key, value, _ := r.Read()
	if r.FieldStr(key) != "kA" || r.ParseString(value) != "line\nbreak" {
		t.Fatalf("got %q = %q", r.FieldStr(key), r.FieldStr(value))
	}
	key, value, _ = r.Read()
	if r.FieldStr(key) != "tab\t" || value.Type != TypeArray {
		t.Fatalf("got %q = %v", r.FieldStr(key), value.Type)
	}
	strs, ok := r.ReadStrings(nil)
	if !ok || len(strs) != 2 || strs[0] != `"q"` || strs[1] != "1" {
		t.Fatalf("got %q, %v", strs, ok)
	}
	key, value, _ = r.Read()
	if !r.IsFieldName(key, "n") || r.ParseInt(value) != 2 {
		t.Fatalf("got %q = %q", r.FieldStr(key), r.FieldStr(value))
	}
	if _, _, more := r.Read(); !more {
		t.Fatal(r.Err())
	}
}
