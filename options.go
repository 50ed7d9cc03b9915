package pulljson

// ReaderOption is a reader option.
type ReaderOption func(r *Reader)

// WithEscapedStrings will decode escape sequences in strings and keys.
// Decoding happens in place: the buffer passed to Begin is modified
// and decoded fields may be shorter than the raw text they were read from.
// Without this option fields reference the raw, still escaped, text.
// Default: false.
func WithEscapedStrings(b bool) ReaderOption {
	return func(r *Reader) {
		r.escapeStrings = b
	}
}

// WithMaxDepth limits the number of simultaneously open containers.
// Values outside 1..MaxDepth select MaxDepth.
// Default: MaxDepth.
func WithMaxDepth(n int) ReaderOption {
	return func(r *Reader) {
		r.maxDepth = n
	}
}

// WithStrictNumbers will validate numbers against the JSON grammar while scanning.
// A malformed number ends the session with ErrNumber.
// By default any run of digits, signs, dots and exponents is accepted
// and conversion problems are left to the caller.
// Default: false.
func WithStrictNumbers(b bool) ReaderOption {
	return func(r *Reader) {
		r.strictNumbers = b
	}
}

// WithStrictSeparators requires a comma between elements and rejects a
// comma before the first element. By default the comma is consumed when
// present, so `[1 2]` and `[,1]` read as two and one elements.
// A comma before a closing bracket is governed by WithTrailingCommas.
// Default: false.
func WithStrictSeparators(b bool) ReaderOption {
	return func(r *Reader) {
		r.strictSeparators = b
	}
}

// WithTrailingCommas accepts a comma directly before a closing bracket.
// By default `[1,]` and `{"a":1,}` are rejected as a missing value.
// Default: false.
func WithTrailingCommas(b bool) ReaderOption {
	return func(r *Reader) {
		r.trailingCommas = b
	}
}

// WriterOption is a writer option.
type WriterOption func(w *Writer)

// WithIndent sets the whitespace written once per nesting level.
// Default: two spaces.
func WithIndent(unit string) WriterOption {
	return func(w *Writer) {
		w.indentUnit = unit
	}
}
