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
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/pulljson-go"
)

// ErrTruncated is returned when the reader has no more data
// while a container is still open.
var ErrTruncated = errors.New("document ended inside a container")

// Decode parses the state document in b.
// Strings are unescaped in place, so b is modified.
func Decode(b []byte, opts ...pulljson.ReaderOption) (*PipelineState, error) {
	opts = append([]pulljson.ReaderOption{pulljson.WithEscapedStrings(true)}, opts...)
	r := pulljson.NewReader(opts...)
	if !r.Begin(b) {
		return nil, fmt.Errorf("state: %w", r.Err())
	}
	return ReadPipelineState(r)
}

// ReadPipelineState reads a state document from r.
// Begin must have been called and nothing read yet.
// The reader should decode escaped strings, otherwise
// names and paths are returned with their escapes.
// Unknown members are skipped.
func ReadPipelineState(r *pulljson.Reader) (*PipelineState, error) {
	p := &PipelineState{Stages: make(map[string]*StageState)}
	err := readObject(r, func(key, value pulljson.Field) error {
		switch {
		case r.IsFieldName(key, keyRunID):
			if err := scalar(r, key, value); err != nil {
				return err
			}
			if s := r.ParseString(value); s != "" {
				id, err := uuid.Parse(s)
				if err != nil {
					return fmt.Errorf("%s: %w", keyRunID, err)
				}
				p.RunID = id
			}
			return nil
		case r.IsFieldName(key, keyStages):
			if err := expect(keyStages, value, pulljson.TypeArray); err != nil {
				return err
			}
			return readArray(r, func(value pulljson.Field) error {
				if err := expect("stage", value, pulljson.TypeObject); err != nil {
					return err
				}
				s, err := readStage(r)
				if err != nil {
					return err
				}
				p.Stages[s.Name] = s
				return nil
			})
		}
		return skip(r, value)
	})
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	return p, nil
}

func readStage(r *pulljson.Reader) (*StageState, error) {
	s := &StageState{Processes: make(map[string]*ProcessState)}
	err := readObject(r, func(key, value pulljson.Field) error {
		switch {
		case r.IsFieldName(key, keyName):
			if err := scalar(r, key, value); err != nil {
				return err
			}
			s.Name = r.ParseString(value)
			return nil
		case r.IsFieldName(key, keyProcesses):
			if err := expect(keyProcesses, value, pulljson.TypeArray); err != nil {
				return err
			}
			return readArray(r, func(value pulljson.Field) error {
				if err := expect("process", value, pulljson.TypeObject); err != nil {
					return err
				}
				p, err := readProcess(r)
				if err != nil {
					return err
				}
				s.Processes[p.Name] = p
				return nil
			})
		}
		return skip(r, value)
	})
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", s.Name, err)
	}
	return s, nil
}

func readProcess(r *pulljson.Reader) (*ProcessState, error) {
	p := &ProcessState{Files: make(map[string]*FileState)}
	err := readObject(r, func(key, value pulljson.Field) error {
		switch {
		case r.IsFieldName(key, keyName):
			if err := scalar(r, key, value); err != nil {
				return err
			}
			p.Name = r.ParseString(value)
			return nil
		case r.IsFieldName(key, keyDepHash):
			if err := scalar(r, key, value); err != nil {
				return err
			}
			p.DescriptorHash = r.ParseString(value)
			return nil
		case r.IsFieldName(key, keyCommandLine):
			if err := scalar(r, key, value); err != nil {
				return err
			}
			p.CommandLine = r.ParseString(value)
			return nil
		case r.IsFieldName(key, keyUsedVars):
			if err := expect(keyUsedVars, value, pulljson.TypeArray); err != nil {
				return err
			}
			vars, ok := r.ReadStrings(p.UsedVars[:0])
			if !ok {
				return readErr(r)
			}
			p.UsedVars = vars
			return nil
		case r.IsFieldName(key, keyFiles):
			if err := expect(keyFiles, value, pulljson.TypeArray); err != nil {
				return err
			}
			return readArray(r, func(value pulljson.Field) error {
				if err := expect("file", value, pulljson.TypeObject); err != nil {
					return err
				}
				f, err := readFile(r)
				if err != nil {
					return err
				}
				p.Files[f.FilePath] = f
				return nil
			})
		}
		return skip(r, value)
	})
	if err != nil {
		return nil, fmt.Errorf("process %q: %w", p.Name, err)
	}
	return p, nil
}

func readFile(r *pulljson.Reader) (*FileState, error) {
	f := &FileState{}
	err := readObject(r, func(key, value pulljson.Field) error {
		if value.Type.IsContainer() {
			return skip(r, value)
		}
		switch {
		case r.IsFieldName(key, keyIsOutput):
			f.IsOutput = r.ParseBool(value)
		case r.IsFieldName(key, keyFilePath):
			f.FilePath = r.ParseString(value)
		case r.IsFieldName(key, keyLastWriteTime):
			f.LastWriteTime = r.ParseLong(value)
		case r.IsFieldName(key, keyContentHash):
			h, err := hex.DecodeString(r.ParseString(value))
			if err != nil {
				return fmt.Errorf("%s: %w", keyContentHash, err)
			}
			if len(h) > 0 {
				f.ContentHash = h
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", f.FilePath, err)
	}
	return f, nil
}

// readObject calls fn for each member of the open object
// and returns when the object has been closed.
// fn must consume container values.
func readObject(r *pulljson.Reader, fn func(key, value pulljson.Field) error) error {
	for {
		key, value, more := r.Read()
		if !more {
			return readErr(r)
		}
		if r.IsObjectEnd(key, value) {
			return nil
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
}

// readArray calls fn for each element of the open array
// and returns when the array has been closed.
func readArray(r *pulljson.Reader, fn func(value pulljson.Field) error) error {
	for {
		key, value, more := r.Read()
		if !more {
			return readErr(r)
		}
		if r.IsArrayEnd(key, value) {
			return nil
		}
		if err := fn(value); err != nil {
			return err
		}
	}
}

// skip consumes value if it is a container.
func skip(r *pulljson.Reader, value pulljson.Field) error {
	if value.Type.IsContainer() && !r.Skip() {
		return readErr(r)
	}
	return nil
}

func readErr(r *pulljson.Reader) error {
	if err := r.Err(); err != nil {
		return err
	}
	return ErrTruncated
}

func expect(what string, value pulljson.Field, want pulljson.ValueType) error {
	if value.Type != want {
		return fmt.Errorf("%s: expected %v, got %v", what, want, value.Type)
	}
	return nil
}

func scalar(r *pulljson.Reader, key, value pulljson.Field) error {
	if !value.Type.IsScalar() {
		return fmt.Errorf("%s: expected a value, got %v", r.FieldStr(key), value.Type)
	}
	return nil
}
