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

package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/pulljson-go"
	"github.com/minio/pulljson-go/internal/logfields"
)

// CompressMode selects how state files are compressed.
type CompressMode uint8

const (
	// CompressNone writes plain JSON text.
	CompressNone CompressMode = iota

	// CompressFast uses s2 streams.
	CompressFast

	// CompressBest uses zstd streams at the best compression level.
	CompressBest
)

func (m CompressMode) String() string {
	switch m {
	case CompressNone:
		return "none"
	case CompressFast:
		return "fast"
	case CompressBest:
		return "best"
	}
	return fmt.Sprintf("CompressMode(%d)", uint8(m))
}

// ParseCompressMode parses a mode name.
// The codec names "s2" and "zstd" are accepted as well.
func ParseCompressMode(s string) (CompressMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressNone, nil
	case "fast", "s2":
		return CompressFast, nil
	case "best", "zstd":
		return CompressBest, nil
	}
	return CompressNone, fmt.Errorf("unknown compression mode %q", s)
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
)

var zDec, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

// Compress appends src compressed with mode to dst.
func Compress(dst, src []byte, mode CompressMode) ([]byte, error) {
	out := bytes.NewBuffer(dst)
	var w io.WriteCloser
	switch mode {
	case CompressNone:
		return append(dst, src...), nil
	case CompressFast:
		w = s2.NewWriter(out, s2.WriterConcurrency(1))
	case CompressBest:
		enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		w = enc
	default:
		return nil, fmt.Errorf("unknown compression mode %v", mode)
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decompress detects the compression of b and returns the decompressed content.
// Input without a known stream header is returned as is.
func Decompress(b []byte) ([]byte, CompressMode, error) {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		out, err := zDec.DecodeAll(b, nil)
		return out, CompressBest, err
	case bytes.HasPrefix(b, s2Magic):
		out, err := io.ReadAll(s2.NewReader(bytes.NewReader(b)))
		return out, CompressFast, err
	}
	return b, CompressNone, nil
}

// Store persists a PipelineState in a single file.
type Store struct {
	path   string
	mode   CompressMode
	indent string
	logger *slog.Logger
}

// NewStore returns a store for the file at path.
// Saved files are compressed with mode. Loading detects the mode.
func NewStore(path string, mode CompressMode) *Store {
	return &Store{
		path:   path,
		mode:   mode,
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (s *Store) WithLogger(logger *slog.Logger) *Store {
	s.logger = logger
	return s
}

// WithIndent sets the indentation of saved documents.
func (s *Store) WithIndent(indent string) *Store {
	s.indent = indent
	return s
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

// Save writes p to the store file.
// The file is replaced atomically through a temporary file in the same directory.
func (s *Store) Save(ctx context.Context, p *PipelineState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	var opts []pulljson.WriterOption
	if s.indent != "" {
		opts = append(opts, pulljson.WithIndent(s.indent))
	}
	doc := Encode(p, opts...)
	data, err := Compress(nil, doc, s.mode)
	if err != nil {
		return fmt.Errorf("failed to compress state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	stages, processes, files := p.Counts()
	s.logger.Debug("Saved pipeline state",
		logfields.Path(s.path),
		logfields.Mode(s.mode.String()),
		logfields.Bytes(len(data)),
		logfields.Stages(stages),
		logfields.Processes(processes),
		logfields.Files(files),
		logfields.Since(start))
	return nil
}

// Load reads the state from the store file.
// A missing file returns an error that matches os.ErrNotExist.
func (s *Store) Load(ctx context.Context) (*PipelineState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	doc, mode, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress state file: %w", err)
	}
	p, err := Decode(doc)
	if err != nil {
		var se *pulljson.SyntaxError
		if errors.As(err, &se) {
			s.logger.Warn("Malformed pipeline state",
				logfields.Path(s.path),
				logfields.Offset(se.Offset),
				logfields.Error(err))
		}
		return nil, err
	}

	stages, processes, files := p.Counts()
	s.logger.Debug("Loaded pipeline state",
		logfields.Path(s.path),
		logfields.Mode(mode.String()),
		logfields.Bytes(len(data)),
		logfields.Stages(stages),
		logfields.Processes(processes),
		logfields.Files(files),
		logfields.Since(start))
	return p, nil
}
