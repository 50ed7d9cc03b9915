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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/pulljson-go/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"a": [1, 2, {"b": null}]}`)
	bad := writeFile(t, dir, "bad.json", "{\n  \"a\": 1,\n  \"b\": }\n")

	code, out, _ := runCLI(t, "validate", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, good+": ok\n", out)

	code, out, stderr := runCLI(t, "validate", good, bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, good+": ok\n")
	assert.Contains(t, out, bad+":3:8: pulljson: syntax error")
	assert.Contains(t, stderr, "1 of 2 documents invalid")
}

func TestValidateConcurrent(t *testing.T) {
	dir := t.TempDir()
	var files []string
	var want strings.Builder
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("doc%02d.json", i)
		if i%4 == 3 {
			files = append(files, writeFile(t, dir, name, `[1,,2]`))
			fmt.Fprintf(&want, "%s:1:4: pulljson: syntax error at offset 3: expected value\n", files[i])
			continue
		}
		files = append(files, writeFile(t, dir, name, fmt.Sprintf(`{"n": %d}`, i)))
		fmt.Fprintf(&want, "%s: ok\n", files[i])
	}

	code, out, stderr := runCLI(t, append([]string{"validate", "--jobs=3"}, files...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "3 of 12 documents invalid")
	assert.Equal(t, want.String(), out)
}

func TestValidateCompressed(t *testing.T) {
	code, out, _ := runCLI(t, "validate", "../../testdata/pipeline.json.zst")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, ": ok")
}

func TestValidateOptions(t *testing.T) {
	dir := t.TempDir()
	trailing := writeFile(t, dir, "trailing.json", `[1, 2,]`)
	number := writeFile(t, dir, "number.json", `[01]`)
	deep := writeFile(t, dir, "deep.json", `[[[1]]]`)
	separators := writeFile(t, dir, "separators.json", `[1 2]`)

	code, _, _ := runCLI(t, "validate", trailing)
	assert.Equal(t, 1, code)
	code, _, _ = runCLI(t, "--trailing-commas", "validate", trailing)
	assert.Equal(t, 0, code)

	code, _, _ = runCLI(t, "validate", number)
	assert.Equal(t, 0, code)
	code, _, _ = runCLI(t, "--strict", "validate", number)
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "validate", separators)
	assert.Equal(t, 0, code)
	code, out, _ := runCLI(t, "--strict", "validate", separators)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "separators.json:1:4: pulljson: syntax error at offset 3: expected ',' or ']'")

	code, _, _ = runCLI(t, "--max-depth=3", "validate", deep)
	assert.Equal(t, 0, code)
	code, _, _ = runCLI(t, "--max-depth=2", "validate", deep)
	assert.Equal(t, 1, code)
}

func TestValidateEnv(t *testing.T) {
	dir := t.TempDir()
	number := writeFile(t, dir, "number.json", `[-01]`)

	t.Setenv("PULLJSON_STRICT", "true")
	code, out, _ := runCLI(t, "validate", number)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "number.json:1:2:")
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	deep := writeFile(t, dir, "deep.json", `[[[1]]]`)
	writeFile(t, dir, ".env", "PULLJSON_MAX_DEPTH=2\n")

	_, set := os.LookupEnv("PULLJSON_MAX_DEPTH")
	require.False(t, set)
	t.Cleanup(func() { os.Unsetenv("PULLJSON_MAX_DEPTH") })
	t.Chdir(dir)

	code, _, _ := runCLI(t, "validate", deep)
	assert.Equal(t, 1, code)
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := runCLI(t, "nonsense")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 2, code)

	code, _, stderr := runCLI(t, "--max-depth=65", "validate", "../../testdata/weather.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "max depth 65")
}

func TestEvents(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.json", `{"a": [1, true], "b": "x"}`)

	code, out, _ := runCLI(t, "events", doc)
	require.Equal(t, 0, code)
	want := strings.Join([]string{
		"2\tstring\tarray\t\"a\"\t-",
		"2\tarray\tnumber\t-\t\"1\"",
		"2\tarray\tbool\t-\t\"true\"",
		"1\tarray\tend\t-\t-",
		"1\tstring\tstring\t\"b\"\t\"x\"",
		"0\tobject\tend\t-\t-",
	}, "\n") + "\n"
	assert.Equal(t, want, out)

	code, out, _ = runCLI(t, "events", "--skip=a", doc)
	require.Equal(t, 0, code)
	want = strings.Join([]string{
		"2\tstring\tarray\t\"a\"\t-",
		"1\tarray\tskipped",
		"1\tstring\tstring\t\"b\"\t\"x\"",
		"0\tobject\tend\t-\t-",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestEventsEscaped(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.json", `{"k\u00e9y": "a\nb"}`)

	code, out, _ := runCLI(t, "events", doc)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"k\\u00e9y"`)

	code, out, _ = runCLI(t, "--escape", "events", doc)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "\"kéy\"\t\"a\\nb\"")
}

func TestEventsError(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.json", `{"a": 1,, "b": 2}`)
	code, _, stderr := runCLI(t, "events", doc)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Command failed")
}

func TestStateCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.state")

	code, out, _ := runCLI(t, "state", "init", "--stage=build,pack", path)
	require.Equal(t, 0, code)
	runID := strings.TrimSpace(out)
	assert.Len(t, runID, 36)

	code, _, stderr := runCLI(t, "state", "init", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	code, out, _ = runCLI(t, "state", "show", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "run: "+runID+"\nstages: 2, processes: 0, files: 0\nstage build\nstage pack\n", out)

	best := filepath.Join(dir, "pipeline.state.zst")
	code, _, _ = runCLI(t, "state", "convert", "--compress=best", path, best)
	require.Equal(t, 0, code)
	data, err := os.ReadFile(best)
	require.NoError(t, err)
	_, mode, err := state.Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, state.CompressBest, mode)

	code, out2, _ := runCLI(t, "state", "show", best)
	require.Equal(t, 0, code)
	assert.Equal(t, out, out2)

	code, _, _ = runCLI(t, "state", "convert", "--compress=huge", path, best)
	assert.Equal(t, 1, code)
}

func TestStateShowFiles(t *testing.T) {
	code, out, _ := runCLI(t, "state", "show", "--files", "../../testdata/pipeline.json.zst")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "run: 3f2c7d0e-8a41-4c55-9b2e-6d1f0a7b9c13\n")
	assert.Contains(t, out, "stages: 24, processes: 192, files: 1152\n")
	assert.Contains(t, out, "    vars: size=")
	assert.Contains(t, out, "    out c:\\output\\stage")
	assert.Contains(t, out, "    in  c:\\assets\\stage")
}

func TestStateConfigCompression(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "state:\n  compress: ${STATE_COMPRESS}\n")
	path := filepath.Join(dir, "pipeline.state")
	t.Setenv("STATE_COMPRESS", "fast")

	code, _, _ := runCLI(t, "-c", cfg, "state", "init", path)
	require.Equal(t, 0, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, mode, err := state.Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, state.CompressFast, mode)
}

func TestBench(t *testing.T) {
	code, out, _ := runCLI(t, "bench", "--rounds=1", "../../testdata/weather.json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "cpu: ")
	for _, name := range []string{"pulljson", "encoding/json", "jsoniter"} {
		assert.Contains(t, out, "\n"+name+" ")
	}

	code, _, _ = runCLI(t, "bench", "--rounds=0", "../../testdata/weather.json")
	assert.Equal(t, 1, code)
}

func TestLogFormat(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.json", `[1]`)
	code, _, stderr := runCLI(t, "--log-format=json", "--log-level=debug", "validate", doc)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, `"msg":"Valid document"`)
	assert.Contains(t, stderr, `"file":"`+doc+`"`)
}
