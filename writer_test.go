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
	"encoding/json"
	"math"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

const wantDocument = `{
  "Name": "stage\t\"A\"",
  "Count": 3,
  "Ok": true,
  "Ratio": 0.25,
  "Vars": [
    "a=1",
    "b=2"
  ],
  "Stamps": [
    1602000000,
    -1
  ],
  "Files": [
    {
      "Path": "out/a.png"
    },
    {
      "Path": "out/b.png"
    }
  ],
  "Nested": {
    "Nothing": null
  }
}
`

func writeDocument(w *Writer) string {
	w.Begin()
	w.WriteString("Name", "stage\t\"A\"", false)
	w.WriteInt("Count", 3, false)
	w.WriteBool("Ok", true, false)
	w.WriteFloat("Ratio", 0.25, false)
	w.BeginArray("Vars")
	w.WriteElement("a=1", false)
	w.WriteElement("b=2", true)
	w.EndArray(false)
	w.BeginArray("Stamps")
	w.WriteElementLong(1602000000, false)
	w.WriteElementLong(-1, true)
	w.EndArray(false)
	w.BeginArray("Files")
	for i, p := range []string{"out/a.png", "out/b.png"} {
		w.BeginObject("")
		w.WriteString("Path", p, true)
		w.EndObject(i == 1)
	}
	w.EndArray(false)
	w.BeginObject("Nested")
	w.WriteNull("Nothing", true)
	w.EndObject(true)
	return w.End()
}

func TestWriterDocument(t *testing.T) {
	got := writeDocument(NewWriter())
	if got != wantDocument {
		t.Fatalf("got:\n%s\nwant:\n%s", got, wantDocument)
	}
	if !json.Valid([]byte(got)) {
		t.Fatal("encoding/json rejected output")
	}
	if !jsoniter.ConfigCompatibleWithStandardLibrary.Valid([]byte(got)) {
		t.Fatal("jsoniter rejected output")
	}
	if err := Validate([]byte(got), WithStrictNumbers(true)); err != nil {
		t.Fatal(err)
	}
}

func TestWriterReuse(t *testing.T) {
	w := NewWriter()
	first := writeDocument(w)
	second := writeDocument(w)
	if first != second {
		t.Fatal("Begin should discard previous output")
	}
}

func TestWriterIndent(t *testing.T) {
	w := NewWriter(WithIndent("\t"))
	w.Begin()
	w.BeginArray("a")
	w.WriteElementBool(false, true)
	w.EndArray(true)
	want := "{\n\t\"a\": [\n\t\tfalse\n\t]\n}\n"
	if got := w.End(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterEmptyKeys(t *testing.T) {
	w := NewWriter()
	w.Begin()
	w.BeginArray("list")
	w.BeginObject("")
	w.WriteString("", "v", true)
	w.EndObject(false)
	w.BeginArray("")
	w.EndArray(true)
	w.EndArray(true)
	want := `{
  "list": [
    {
      "": "v"
    },
    [
    ]
  ]
}
`
	if got := w.End(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Begin()
	w.WriteString("s", "quote \" slash \\ nl \n ctl \x01 utf8 é", false)
	w.WriteLong("l", math.MaxInt64, false)
	w.WriteFloat("f", -1.5e-9, false)
	w.WriteField("i32", int32(-7), false)
	w.WriteField("u32", uint32(7), false)
	w.WriteField("f32", float32(0.1), false)
	w.WriteField("nil", nil, false)
	w.WriteField("other", []int{1, 2}, true)
	doc := []byte(w.End())

	var m map[string]interface{}
	if err := json.Unmarshal(doc, &m); err != nil {
		t.Fatalf("%v\n%s", err, doc)
	}
	if m["s"] != "quote \" slash \\ nl \n ctl \x01 utf8 é" {
		t.Errorf("string mismatch: %q", m["s"])
	}
	if m["nil"] != nil || m["other"] != "[1 2]" {
		t.Errorf("got %v and %v", m["nil"], m["other"])
	}

	r := NewReader(WithEscapedStrings(true))
	if !r.Begin(doc) {
		t.Fatal(r.Err())
	}
	for {
		key, value, more := r.Read()
		if !more {
			break
		}
		switch r.FieldStr(key) {
		case "s":
			if got := r.ParseString(value); got != m["s"] {
				t.Errorf("reader got %q", got)
			}
		case "l":
			if got := r.ParseLong(value); got != math.MaxInt64 {
				t.Errorf("reader got %d", got)
			}
		case "f":
			if got := r.ParseFloat(value); got != -1.5e-9 {
				t.Errorf("reader got %v", got)
			}
		case "f32":
			if got := r.FieldStr(value); got != "0.1" {
				t.Errorf("float32 written as %q", got)
			}
		case "i32":
			if got := r.ParseInt(value); got != -7 {
				t.Errorf("reader got %d", got)
			}
		}
	}
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
}

func TestWriterFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: 100, want: "100"},
		{in: 0.25, want: "0.25"},
		{in: 1e20, want: "100000000000000000000"},
		{in: 1e21, want: "1e+21"},
		{in: 1e-6, want: "0.000001"},
		{in: 1e-7, want: "1e-7"},
		{in: -2.5e-10, want: "-2.5e-10"},
		{in: math.NaN(), want: "null"},
		{in: math.Inf(1), want: "null"},
		{in: math.Inf(-1), want: "null"},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteElementFloat(tt.in, true)
		got := strings.TrimSpace(string(w.Bytes()))
		if got != tt.want {
			t.Errorf("float %v written as %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeBytes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "a\"b", want: `a\"b`},
		{in: `back\slash`, want: `back\\slash`},
		{in: "\b\f\n\r\t", want: `\b\f\n\r\t`},
		{in: "\x00\x1f", want: `\u0000\u001f`},
		{in: "/", want: "/"},
		{in: "é€", want: "é€"},
	}
	for _, tt := range tests {
		if got := string(escapeBytes(nil, tt.in)); got != tt.want {
			t.Errorf("escapeBytes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
