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

// isWhitespace reports the JSON insignificant whitespace bytes.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// skipWhitespace returns the offset of the first non-whitespace byte at or after pos.
// len(buf) is returned when only whitespace remains.
func skipWhitespace(buf []byte, pos int) int {
	for pos < len(buf) && isWhitespace(buf[pos]) {
		pos++
	}
	return pos
}

// classify returns the type of the value starting with c.
// TypeError is returned if c cannot start a value.
func classify(c byte) ValueType {
	switch c {
	case '{':
		return TypeObject
	case '[':
		return TypeArray
	case '"':
		return TypeString
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		return TypeNumber
	case 't', 'T', 'f', 'F':
		return TypeBool
	case 'n', 'N':
		return TypeNull
	}
	return TypeError
}

// scanString bounds the string whose opening quote is at pos.
// Escapes are skipped, not decoded: a backslash always consumes
// the byte after it. The returned field excludes the quotes and
// next is the offset after the closing quote.
func scanString(buf []byte, pos int) (f Field, next int, ok bool) {
	start := pos + 1
	for i := start; i < len(buf); i++ {
		switch buf[i] {
		case '"':
			return Field{Begin: start, Length: i - start, Type: TypeString}, i + 1, true
		case '\\':
			i++
		}
	}
	return Field{Begin: start, Type: TypeError}, len(buf), false
}

// isNumberByte reports the bytes consumed by the number scanner.
func isNumberByte(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-', '+', '.', 'e', 'E':
		return true
	}
	return false
}

// scanNumber greedily consumes number bytes starting at pos.
// No grammar validation is done, "1.2.3" is one token.
func scanNumber(buf []byte, pos int) (f Field, next int) {
	next = pos + 1
	for next < len(buf) && isNumberByte(buf[next]) {
		next++
	}
	return Field{Begin: pos, Length: next - pos, Type: TypeNumber}, next
}

// validNumber checks b against the JSON number grammar:
//
//	-? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
func validNumber(b []byte) bool {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(b) && b[i] == '.' {
		i++
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}
	return i == len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanLiteral matches lit case-insensitively at pos.
// lit must be lower case.
func scanLiteral(buf []byte, pos int, lit string, t ValueType) (f Field, next int, ok bool) {
	if len(buf)-pos < len(lit) {
		return Field{Begin: pos, Type: TypeError}, pos, false
	}
	for i := 0; i < len(lit); i++ {
		if lower(buf[pos+i]) != lit[i] {
			return Field{Begin: pos, Type: TypeError}, pos, false
		}
	}
	return Field{Begin: pos, Length: len(lit), Type: t}, pos + len(lit), true
}

// scanBool matches true or false at pos.
func scanBool(buf []byte, pos int) (f Field, next int, ok bool) {
	if f, next, ok = scanLiteral(buf, pos, "true", TypeBool); ok {
		return f, next, ok
	}
	return scanLiteral(buf, pos, "false", TypeBool)
}

// scanNull matches null at pos.
func scanNull(buf []byte, pos int) (f Field, next int, ok bool) {
	return scanLiteral(buf, pos, "null", TypeNull)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
