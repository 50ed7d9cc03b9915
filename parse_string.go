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
	"unicode/utf16"
	"unicode/utf8"
)

// decodeString decodes the string whose opening quote is at pos in place.
//
// A read cursor scans the raw text and a write cursor trails it. Both move
// together until the first escape, after which decoded bytes are copied
// back to the write cursor. The returned field covers the decoded bytes;
// buf between the end of the field and the closing quote is stale.
// next is the offset after the closing quote.
func decodeString(buf []byte, pos int) (f Field, next int, ok bool) {
	start := pos + 1
	r, w := start, start
	for r < len(buf) {
		c := buf[r]
		switch c {
		case '"':
			return Field{Begin: start, Length: w - start, Type: TypeString}, r + 1, true
		case '\\':
			if r+1 >= len(buf) {
				return Field{Begin: start, Type: TypeError}, len(buf), false
			}
			e := buf[r+1]
			r += 2
			switch e {
			case '"', '\\', '/', '\'':
				buf[w] = e
				w++
			case 'b':
				buf[w] = '\b'
				w++
			case 'f':
				buf[w] = '\f'
				w++
			case 'n':
				buf[w] = '\n'
				w++
			case 'r':
				buf[w] = '\r'
				w++
			case 't':
				buf[w] = '\t'
				w++
			case 'u':
				if r+4 > len(buf) {
					return Field{Begin: start, Type: TypeError}, len(buf), false
				}
				rn := rune(hex4(buf[r:]))
				r += 4
				if utf16.IsSurrogate(rn) {
					rn, r = decodeSurrogate(buf, rn, r)
				}
				w += utf8.EncodeRune(buf[w:], rn)
			default:
				// Unknown escape, the escaped byte passes through.
				buf[w] = e
				w++
			}
		default:
			if w < r {
				buf[w] = c
			}
			w++
			r++
		}
	}
	return Field{Begin: start, Type: TypeError}, len(buf), false
}

// decodeSurrogate combines the high surrogate hi with a following
// \u low surrogate at r. Lone surrogates decode to utf8.RuneError.
func decodeSurrogate(buf []byte, hi rune, r int) (rune, int) {
	if hi >= 0xdc00 || r+6 > len(buf) || buf[r] != '\\' || buf[r+1] != 'u' {
		return utf8.RuneError, r
	}
	lo := rune(hex4(buf[r+2:]))
	if lo < 0xdc00 || lo > 0xdfff {
		return utf8.RuneError, r
	}
	return utf16.DecodeRune(hi, lo), r + 6
}

// hex4 reads four hex digits as one UTF-16 code unit.
// Bytes that are not hex digits count as zero.
func hex4(b []byte) uint16 {
	var v uint16
	for _, c := range b[:4] {
		v = v<<4 | uint16(hexToVal[c])
	}
	return v
}

var hexToVal = [256]uint8{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'a': 10, 'b': 11, 'c': 12, 'd': 13, 'e': 14, 'f': 15,
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15,
}
