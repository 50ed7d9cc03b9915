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

// Package logfields holds the canonical slog attribute keys shared by the
// state store and the command line tool.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyFile       = "file"
	KeyMode       = "mode"
	KeyBytes      = "bytes"
	KeyStages     = "stages"
	KeyProcesses  = "processes"
	KeyFiles      = "files"
	KeyPairs      = "pairs"
	KeyDepth      = "depth"
	KeyOffset     = "offset"
	KeyRunID      = "run_id"
	KeyCommand    = "command"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Path(p string) slog.Attr    { return slog.String(KeyPath, p) }
func File(f string) slog.Attr    { return slog.String(KeyFile, f) }
func Mode(m string) slog.Attr    { return slog.String(KeyMode, m) }
func Bytes(n int) slog.Attr      { return slog.Int(KeyBytes, n) }
func Stages(n int) slog.Attr     { return slog.Int(KeyStages, n) }
func Processes(n int) slog.Attr  { return slog.Int(KeyProcesses, n) }
func Files(n int) slog.Attr      { return slog.Int(KeyFiles, n) }
func Pairs(n int) slog.Attr      { return slog.Int(KeyPairs, n) }
func Depth(n int) slog.Attr      { return slog.Int(KeyDepth, n) }
func Offset(n int) slog.Attr     { return slog.Int(KeyOffset, n) }
func RunID(id string) slog.Attr  { return slog.String(KeyRunID, id) }
func Command(c string) slog.Attr { return slog.String(KeyCommand, c) }
func DurationMS(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMS, ms)
}

// Since returns the time elapsed since start as a duration_ms attribute.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
