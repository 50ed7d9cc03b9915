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
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/pulljson-go/internal/logfields"
	"github.com/minio/pulljson-go/state"
)

// StateCmd groups the pipeline state commands.
type StateCmd struct {
	Show    StateShowCmd    `cmd:"" help:"Print a summary of a state file"`
	Convert StateConvertCmd `cmd:"" help:"Rewrite a state file with another compression"`
	Init    StateInitCmd    `cmd:"" help:"Create an empty state file for a new run"`
}

func (g *Global) store(path string, mode state.CompressMode) *state.Store {
	return state.NewStore(path, mode).
		WithLogger(g.Logger).
		WithIndent(g.Config.Writer.Indent)
}

// StateShowCmd implements 'state show'.
type StateShowCmd struct {
	File  string `arg:"" type:"existingfile" help:"State file to show."`
	Files bool   `help:"List the files of every process."`
}

// Run prints the stages and processes of the state file.
func (c *StateShowCmd) Run(g *Global) error {
	p, err := g.store(c.File, state.CompressNone).Load(context.Background())
	if err != nil {
		return err
	}
	w := bufio.NewWriter(g.Out)
	defer w.Flush()
	printPipeline(w, p, c.Files)
	return nil
}

func printPipeline(w io.Writer, p *state.PipelineState, files bool) {
	if p.RunID != uuid.Nil {
		fmt.Fprintf(w, "run: %s\n", p.RunID)
	}
	stages, processes, nfiles := p.Counts()
	fmt.Fprintf(w, "stages: %d, processes: %d, files: %d\n", stages, processes, nfiles)
	for _, sn := range sortedNames(p.Stages) {
		s := p.Stages[sn]
		fmt.Fprintf(w, "stage %s\n", sn)
		for _, pn := range sortedNames(s.Processes) {
			proc := s.Processes[pn]
			fmt.Fprintf(w, "  process %s: %s\n", pn, proc.CommandLine)
			if len(proc.UsedVars) > 0 {
				fmt.Fprintf(w, "    vars: %s\n", strings.Join(proc.UsedVars, ", "))
			}
			if !files {
				continue
			}
			for _, fn := range sortedNames(proc.Files) {
				f := proc.Files[fn]
				dir := "in "
				if f.IsOutput {
					dir = "out"
				}
				hash := f.ContentHash
				if len(hash) > 8 {
					hash = hash[:8]
				}
				fmt.Fprintf(w, "    %s %s %d %s\n", dir, fn, f.LastWriteTime, hex.EncodeToString(hash))
			}
		}
	}
}

// StateConvertCmd implements 'state convert'.
type StateConvertCmd struct {
	In       string `arg:"" type:"existingfile" help:"State file to read."`
	Out      string `arg:"" type:"path" help:"State file to write."`
	Compress string `help:"Compression of the output: none, fast or best. Defaults to the configured mode."`
}

// Run loads In and saves it to Out with the selected compression.
func (c *StateConvertCmd) Run(g *Global) error {
	mode, err := g.CompressMode()
	if err != nil {
		return err
	}
	if c.Compress != "" {
		if mode, err = state.ParseCompressMode(c.Compress); err != nil {
			return err
		}
	}
	ctx := context.Background()
	p, err := g.store(c.In, state.CompressNone).Load(ctx)
	if err != nil {
		return err
	}
	if err := g.store(c.Out, mode).Save(ctx, p); err != nil {
		return err
	}
	g.Logger.Info("Converted pipeline state",
		logfields.Path(c.Out),
		logfields.Mode(mode.String()))
	return nil
}

// StateInitCmd implements 'state init'.
type StateInitCmd struct {
	File   string   `arg:"" type:"path" help:"State file to create."`
	Stages []string `name:"stage" help:"Stages to add." sep:","`
	Force  bool     `help:"Overwrite an existing file."`
}

// Run writes an empty state with a new run ID.
func (c *StateInitCmd) Run(g *Global) error {
	if !c.Force {
		if _, err := os.Stat(c.File); err == nil {
			return fmt.Errorf("%s already exists", c.File)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	mode, err := g.CompressMode()
	if err != nil {
		return err
	}
	p := state.NewPipelineState()
	for _, name := range c.Stages {
		p.Stage(name)
	}
	if err := g.store(c.File, mode).Save(context.Background(), p); err != nil {
		return err
	}
	fmt.Fprintln(g.Out, p.RunID)
	g.Logger.Info("Initialized pipeline state",
		logfields.Path(c.File),
		logfields.RunID(p.RunID.String()),
		logfields.Stages(len(p.Stages)))
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
