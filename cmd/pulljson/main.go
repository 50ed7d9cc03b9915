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

// Command pulljson checks JSON documents and manages pipeline state files.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/minio/pulljson-go"
	"github.com/minio/pulljson-go/internal/logfields"
	"github.com/minio/pulljson-go/state"
)

// CLI definition & global flags.
type CLI struct {
	Config    string `short:"c" help:"Configuration file path (YAML)" type:"path" env:"PULLJSON_CONFIG"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" env:"PULLJSON_LOG_LEVEL"`
	LogFormat string `help:"Log format (text or json)" env:"PULLJSON_LOG_FORMAT"`
	Escape    bool   `help:"Decode escape sequences in strings" env:"PULLJSON_ESCAPE"`
	Strict    bool   `help:"Validate numbers and separators against the JSON grammar" env:"PULLJSON_STRICT"`
	Trailing  bool   `name:"trailing-commas" help:"Accept a comma before a closing bracket" env:"PULLJSON_TRAILING_COMMAS"`
	MaxDepth  int    `help:"Maximum nesting depth (1-64)" env:"PULLJSON_MAX_DEPTH"`

	Validate ValidateCmd `cmd:"" help:"Validate JSON documents"`
	Events   EventsCmd   `cmd:"" help:"Print the key/value pairs of a document"`
	State    StateCmd    `cmd:"" help:"Inspect and convert pipeline state files"`
	Bench    BenchCmd    `cmd:"" help:"Measure read throughput on a document"`
}

// Global is passed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	Config *Config
}

// ReaderOptions returns the reader options selected by flags and configuration.
func (g *Global) ReaderOptions() []pulljson.ReaderOption {
	c := g.Config.Reader
	opts := []pulljson.ReaderOption{
		pulljson.WithEscapedStrings(c.Escape),
		pulljson.WithStrictNumbers(c.Strict),
		pulljson.WithStrictSeparators(c.Strict),
		pulljson.WithTrailingCommas(c.TrailingCommas),
	}
	if c.MaxDepth > 0 {
		opts = append(opts, pulljson.WithMaxDepth(c.MaxDepth))
	}
	return opts
}

// CompressMode returns the configured state compression.
func (g *Global) CompressMode() (state.CompressMode, error) {
	return state.ParseCompressMode(g.Config.State.Compress)
}

// setup merges flags into the configuration and creates the logger.
func (c *CLI) setup(stdout, stderr io.Writer) (*Global, error) {
	cfg, err := LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	cfg.Reader.Escape = cfg.Reader.Escape || c.Escape
	cfg.Reader.Strict = cfg.Reader.Strict || c.Strict
	cfg.Reader.TrailingCommas = cfg.Reader.TrailingCommas || c.Trailing
	if c.MaxDepth != 0 {
		cfg.Reader.MaxDepth = c.MaxDepth
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Log.Format = c.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Global{
		Logger: newLogger(stderr, cfg.Log),
		Out:    stdout,
		Config: cfg,
	}, nil
}

func newLogger(w io.Writer, c LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	if c.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadDotEnv loads .env from the working directory if present.
// Variables already set in the environment are not overridden.
func loadDotEnv(stderr io.Writer) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}
}

// run executes the command line in args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	loadDotEnv(stderr)

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("pulljson"),
		kong.Description("Pull parser based JSON and pipeline state tool."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "pulljson: %v\n", err)
		return 2
	}
	g, err := cli.setup(stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "pulljson: %v\n", err)
		return 2
	}
	slog.SetDefault(g.Logger)

	if err := ctx.Run(g); err != nil {
		g.Logger.Error("Command failed", logfields.Command(ctx.Command()), logfields.Error(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
