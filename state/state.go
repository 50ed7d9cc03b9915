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

// Package state maps build pipeline state to and from JSON documents
// using the pulljson Reader and Writer.
//
// A pipeline has stages, a stage runs processes and each process records
// the files it read and wrote, so that a later run can tell which
// processes are up to date.
package state

import (
	"sort"

	"github.com/google/uuid"
)

// PipelineState is the persisted state of one pipeline.
type PipelineState struct {
	// RunID identifies the run that produced the state.
	// uuid.Nil is not written.
	RunID  uuid.UUID
	Stages map[string]*StageState
}

// StageState holds the processes of a stage keyed by name.
type StageState struct {
	Name      string
	Processes map[string]*ProcessState
}

// ProcessState describes one process invocation and the files it touched.
type ProcessState struct {
	Name string
	// DescriptorHash is a hash of the process configuration.
	DescriptorHash string
	CommandLine    string
	UsedVars       []string
	Files          map[string]*FileState
}

// FileState is the state of a single input or output file.
type FileState struct {
	IsOutput bool
	FilePath string
	// LastWriteTime is stored as written by the producer, usually
	// seconds or ticks since an epoch.
	LastWriteTime int64
	ContentHash   []byte
}

// NewPipelineState returns an empty state for a new run.
func NewPipelineState() *PipelineState {
	return &PipelineState{
		RunID:  uuid.New(),
		Stages: make(map[string]*StageState),
	}
}

// Stage returns the named stage, adding it if needed.
func (p *PipelineState) Stage(name string) *StageState {
	if p.Stages == nil {
		p.Stages = make(map[string]*StageState)
	}
	s, ok := p.Stages[name]
	if !ok {
		s = &StageState{Name: name, Processes: make(map[string]*ProcessState)}
		p.Stages[name] = s
	}
	return s
}

// Process returns the named process, adding it if needed.
func (s *StageState) Process(name string) *ProcessState {
	if s.Processes == nil {
		s.Processes = make(map[string]*ProcessState)
	}
	p, ok := s.Processes[name]
	if !ok {
		p = &ProcessState{Name: name, Files: make(map[string]*FileState)}
		s.Processes[name] = p
	}
	return p
}

// AddFile records f, replacing any file with the same path.
func (p *ProcessState) AddFile(f *FileState) {
	if p.Files == nil {
		p.Files = make(map[string]*FileState)
	}
	p.Files[f.FilePath] = f
}

// Counts returns the number of stages, processes and files.
func (p *PipelineState) Counts() (stages, processes, files int) {
	for _, s := range p.Stages {
		stages++
		for _, proc := range s.Processes {
			processes++
			files += len(proc.Files)
		}
	}
	return stages, processes, files
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
