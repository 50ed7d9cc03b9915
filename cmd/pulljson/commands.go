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

package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/minio/pulljson-go"
	"github.com/minio/pulljson-go/internal/logfields"
	"github.com/minio/pulljson-go/state"
	"github.com/panjf2000/ants/v2"
)

// readDocument reads a file, decompressing zstd and s2 streams.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, _, err := state.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// position returns the 1-based line and column of offset off in data.
func position(data []byte, off int) (line, col int) {
	if off > len(data) {
		off = len(data)
	}
	line = 1 + bytes.Count(data[:off], []byte{'\n'})
	col = off - bytes.LastIndexByte(data[:off], '\n')
	return line, col
}

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Documents to validate. Compressed files are detected."`
	Jobs  int      `help:"Number of documents validated concurrently. Defaults to GOMAXPROCS."`
}

type validateResult struct {
	data    []byte
	err     error
	elapsed time.Duration
}

func validateFile(file string, opts []pulljson.ReaderOption) (res validateResult) {
	start := time.Now()
	defer func() { res.elapsed = time.Since(start) }()
	res.data, res.err = readDocument(file)
	if res.err != nil {
		return res
	}
	// Keep data intact for error positions, decoding modifies the buffer.
	res.err = pulljson.Validate(append([]byte(nil), res.data...), opts...)
	return res
}

// Run validates every file and fails if any of them is invalid.
// Results are printed in argument order.
func (c *ValidateCmd) Run(g *Global) error {
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(jobs)
	if err != nil {
		return err
	}
	defer pool.Release()

	opts := g.ReaderOptions()
	results := make([]validateResult, len(c.Files))
	var wg sync.WaitGroup
	for i, file := range c.Files {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = validateFile(file, opts)
		}); err != nil {
			wg.Done()
			results[i].err = err
		}
	}
	wg.Wait()

	failed := 0
	for i, file := range c.Files {
		res := results[i]
		if res.err == nil {
			fmt.Fprintf(g.Out, "%s: ok\n", file)
			g.Logger.Debug("Valid document", logfields.File(file), logfields.Bytes(len(res.data)),
				logfields.DurationMS(float64(res.elapsed.Microseconds())/1000))
			continue
		}
		failed++
		var se *pulljson.SyntaxError
		if errors.As(res.err, &se) {
			line, col := position(res.data, se.Offset)
			fmt.Fprintf(g.Out, "%s:%d:%d: %v\n", file, line, col, res.err)
			g.Logger.Debug("Invalid document", logfields.File(file), logfields.Offset(se.Offset), logfields.Error(res.err))
			continue
		}
		fmt.Fprintf(g.Out, "%s: %v\n", file, res.err)
		g.Logger.Error("Failed to read document", logfields.File(file), logfields.Error(res.err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(c.Files))
	}
	return nil
}

// EventsCmd implements the 'events' command.
type EventsCmd struct {
	File string   `arg:"" type:"existingfile" help:"Document to read."`
	Skip []string `help:"Skip the content of members with these names." sep:","`
}

// Run prints one line per pair: depth, key type, value type, key and value.
func (c *EventsCmd) Run(g *Global) error {
	start := time.Now()
	data, err := readDocument(c.File)
	if err != nil {
		return err
	}
	r := pulljson.NewReader(g.ReaderOptions()...)
	if !r.Begin(data) {
		return r.Err()
	}

	w := bufio.NewWriter(g.Out)
	defer w.Flush()

	pairs, maxDepth := 0, r.Depth()
	for {
		key, value, more := r.Read()
		if !more {
			break
		}
		pairs++
		if d := r.Depth(); d > maxDepth {
			maxDepth = d
		}
		fmt.Fprintf(w, "%d\t%v\t%v\t%s\t%s\n", r.Depth(), key.Type, value.Type, text(r, key), text(r, value))
		if value.Type.IsContainer() && c.skip(r, key) {
			if !r.Skip() {
				break
			}
			fmt.Fprintf(w, "%d\t%v\tskipped\n", r.Depth(), value.Type)
		}
	}
	if err := r.Err(); err != nil {
		return err
	}
	g.Logger.Debug("Read document",
		logfields.File(c.File),
		logfields.Pairs(pairs),
		logfields.Depth(maxDepth),
		logfields.Since(start))
	return nil
}

func (c *EventsCmd) skip(r *pulljson.Reader, key pulljson.Field) bool {
	for _, name := range c.Skip {
		if r.IsFieldName(key, name) {
			return true
		}
	}
	return false
}

// text returns the quoted content of scalar fields and "-" otherwise.
func text(r *pulljson.Reader, f pulljson.Field) string {
	if !f.Type.IsScalar() {
		return "-"
	}
	return fmt.Sprintf("%q", r.FieldStr(f))
}
