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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/cpuid/v2"
	"github.com/minio/pulljson-go"
	"github.com/minio/pulljson-go/internal/logfields"
)

// BenchCmd implements the 'bench' command.
type BenchCmd struct {
	File   string `arg:"" type:"existingfile" help:"Document to read. Compressed files are detected."`
	Rounds int    `default:"20" help:"Number of reads per parser."`
}

type benchResult struct {
	name  string
	total time.Duration
}

// Run reads the document with the pull reader and the baseline decoders
// and prints the throughput of each.
func (c *BenchCmd) Run(g *Global) error {
	if c.Rounds < 1 {
		return errors.New("rounds must be at least 1")
	}
	data, err := readDocument(c.File)
	if err != nil {
		return err
	}
	opts := g.ReaderOptions()
	if err := pulljson.Validate(append([]byte(nil), data...), opts...); err != nil {
		return err
	}

	w := bufio.NewWriter(g.Out)
	defer w.Flush()
	fmt.Fprintf(w, "cpu: %s (%d cores, %d threads)\n", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
	var simd []string
	for _, f := range []cpuid.FeatureID{cpuid.SSE42, cpuid.AVX2, cpuid.BMI2, cpuid.AVX512F} {
		if cpuid.CPU.Supports(f) {
			simd = append(simd, f.String())
		}
	}
	if len(simd) == 0 {
		simd = append(simd, "none")
	}
	fmt.Fprintf(w, "features: %s\n", strings.Join(simd, " "))
	fmt.Fprintf(w, "document: %s (%d bytes)\n", c.File, len(data))

	buf := make([]byte, len(data))
	r := pulljson.NewReader(opts...)
	var v any
	runs := []struct {
		name string
		fn   func() error
	}{
		{name: "pulljson", fn: func() error {
			// Decoding in escape mode modifies the buffer.
			copy(buf, data)
			if !r.Begin(buf) {
				return r.Err()
			}
			for {
				if _, _, more := r.Read(); !more {
					return r.Err()
				}
			}
		}},
		{name: "encoding/json", fn: func() error {
			v = nil
			return json.Unmarshal(data, &v)
		}},
		{name: "jsoniter", fn: func() error {
			v = nil
			return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &v)
		}},
	}

	results := make([]benchResult, 0, len(runs))
	for _, run := range runs {
		start := time.Now()
		for i := 0; i < c.Rounds; i++ {
			if err := run.fn(); err != nil {
				return fmt.Errorf("%s: %w", run.name, err)
			}
		}
		results = append(results, benchResult{name: run.name, total: time.Since(start)})
	}
	for _, res := range results {
		perOp := res.total / time.Duration(c.Rounds)
		mbps := 0.0
		if secs := res.total.Seconds(); secs > 0 {
			mbps = float64(len(data)) * float64(c.Rounds) / secs / (1 << 20)
		}
		fmt.Fprintf(w, "%-14s %10.1f MB/s %12v/op\n", res.name, mbps, perOp)
		g.Logger.Debug("Benchmark finished",
			logfields.Command(res.name),
			logfields.Bytes(len(data)),
			logfields.DurationMS(float64(res.total.Microseconds())/1000))
	}
	return nil
}
