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
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/minio/pulljson-go"
)

// Member names of the state document.
const (
	keyRunID         = "RunID"
	keyStages        = "Stages"
	keyName          = "Name"
	keyProcesses     = "Processes"
	keyCommandLine   = "CmdLine"
	keyDepHash       = "DepHash"
	keyFiles         = "Files"
	keyUsedVars      = "UsedVars"
	keyIsOutput      = "IsOutput"
	keyFilePath      = "FilePath"
	keyLastWriteTime = "LastWriteTime"
	keyContentHash   = "ContentHash"
)

// Encode returns p as an indented JSON document.
func Encode(p *PipelineState, opts ...pulljson.WriterOption) []byte {
	w := pulljson.NewWriter(opts...)
	WritePipelineState(w, p)
	return w.Bytes()
}

// WritePipelineState writes p as a complete document and returns the text.
// Stages, processes and files are written sorted by their map keys,
// which are also written as their names.
func WritePipelineState(w *pulljson.Writer, p *PipelineState) string {
	w.Begin()
	if p.RunID != uuid.Nil {
		w.WriteString(keyRunID, p.RunID.String(), false)
	}
	w.BeginArray(keyStages)
	names := sortedKeys(p.Stages)
	for i, name := range names {
		w.BeginObject("")
		writeStage(w, name, p.Stages[name])
		w.EndObject(i == len(names)-1)
	}
	w.EndArray(true)
	return w.End()
}

func writeStage(w *pulljson.Writer, name string, s *StageState) {
	w.WriteString(keyName, name, false)
	w.BeginArray(keyProcesses)
	names := sortedKeys(s.Processes)
	for i, name := range names {
		w.BeginObject("")
		writeProcess(w, name, s.Processes[name])
		w.EndObject(i == len(names)-1)
	}
	w.EndArray(true)
}

func writeProcess(w *pulljson.Writer, name string, p *ProcessState) {
	w.WriteString(keyName, name, false)
	w.WriteString(keyCommandLine, p.CommandLine, false)
	w.WriteString(keyDepHash, p.DescriptorHash, false)

	w.BeginArray(keyFiles)
	paths := sortedKeys(p.Files)
	for i, path := range paths {
		w.BeginObject("")
		writeFile(w, path, p.Files[path])
		w.EndObject(i == len(paths)-1)
	}
	w.EndArray(false)

	w.BeginArray(keyUsedVars)
	for i, v := range p.UsedVars {
		w.WriteElement(v, i == len(p.UsedVars)-1)
	}
	w.EndArray(true)
}

func writeFile(w *pulljson.Writer, path string, f *FileState) {
	w.WriteBool(keyIsOutput, f.IsOutput, false)
	w.WriteString(keyFilePath, path, false)
	w.WriteLong(keyLastWriteTime, f.LastWriteTime, false)
	w.WriteString(keyContentHash, hex.EncodeToString(f.ContentHash), true)
}
