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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/minio/pulljson-go"
	"github.com/minio/pulljson-go/state"
	"gopkg.in/yaml.v3"
)

// Config is the configuration file of the command line tool.
// Flags and PULLJSON_* environment variables take precedence.
type Config struct {
	Reader ReaderConfig `yaml:"reader"`
	Writer WriterConfig `yaml:"writer"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

// ReaderConfig holds the reader options.
type ReaderConfig struct {
	Escape         bool `yaml:"escape"`
	// Strict validates numbers and requires commas between elements.
	Strict         bool `yaml:"strict"`
	TrailingCommas bool `yaml:"trailing_commas"`
	MaxDepth       int  `yaml:"max_depth"`
}

// WriterConfig holds the writer options.
type WriterConfig struct {
	Indent string `yaml:"indent"`
}

// StateConfig holds the state file options.
type StateConfig struct {
	// Compress is the default compression for written state files.
	Compress string `yaml:"compress"`
}

// LogConfig holds the logging options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Writer: WriterConfig{Indent: "  "},
		State:  StateConfig{Compress: "none"},
		Log:    LogConfig{Level: "info", Format: LogFormatText},
	}
}

// LoadConfig reads the YAML file at path over the defaults.
// Environment variables in the file are expanded.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Reader.MaxDepth < 0 || c.Reader.MaxDepth > pulljson.MaxDepth {
		return fmt.Errorf("max depth %d outside 1..%d", c.Reader.MaxDepth, pulljson.MaxDepth)
	}
	if _, err := state.ParseCompressMode(c.State.Compress); err != nil {
		return err
	}
	if strings.Trim(c.Writer.Indent, " \t") != "" {
		return fmt.Errorf("indent %q must only contain spaces and tabs", c.Writer.Indent)
	}
	switch strings.ToLower(c.Log.Format) {
	case LogFormatText, LogFormatJSON:
		c.Log.Format = strings.ToLower(c.Log.Format)
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

func (c LogConfig) slogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
