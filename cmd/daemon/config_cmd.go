// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/movieinfo/internal/config"
)

const redacted = "***"

func runConfigCLI(args []string) int {
	return configCLI(args, os.Stdout, os.Stderr)
}

func configCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  movieinfo config validate --file|-f config.yaml")
	fmt.Fprintln(w, "  movieinfo config dump [--file|-f config.yaml] [--format=yaml|json]")
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("movieinfo config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}

	if _, err := config.NewLoader(configPath, version).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fmt.Fprintf(stdout, "%s is valid\n", configPath)
	return 0
}

// runConfigDump prints the effective configuration (defaults, file, env)
// with secrets redacted.
func runConfigDump(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("movieinfo config dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, format string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := strings.TrimSpace(file)
	cfg, err := config.NewLoader(configPath, version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	fileCfg := fileConfigFromAppConfig(cfg)
	redactFileConfigSecrets(&fileCfg)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}

func fileConfigFromAppConfig(cfg config.AppConfig) config.FileConfig {
	redisDB := cfg.Store.Redis.DB
	rlEnabled := cfg.RateLimit.Enabled
	rlRequests := cfg.RateLimit.Requests
	otelEnabled := cfg.Telemetry.Enabled
	sampling := cfg.Telemetry.SamplingRate
	metricsEnabled := cfg.Metrics.Enabled

	return config.FileConfig{
		ListenAddr: cfg.ListenAddr,
		LogLevel:   cfg.LogLevel,
		LogService: cfg.LogService,
		Store: &config.FileStore{
			Backend: cfg.Store.Backend,
			Path:    cfg.Store.Path,
			Redis: &config.FileRedis{
				Addr:      cfg.Store.Redis.Addr,
				Password:  cfg.Store.Redis.Password,
				DB:        &redisDB,
				KeyPrefix: cfg.Store.Redis.KeyPrefix,
			},
			Mongo: &config.FileMongo{
				URI:        cfg.Store.Mongo.URI,
				Database:   cfg.Store.Mongo.Database,
				Collection: cfg.Store.Mongo.Collection,
			},
		},
		Server: &config.FileServer{
			ReadTimeout:     cfg.Server.ReadTimeout.String(),
			WriteTimeout:    cfg.Server.WriteTimeout.String(),
			IdleTimeout:     cfg.Server.IdleTimeout.String(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout.String(),
		},
		RateLimit: &config.FileRateLimit{
			Enabled:   &rlEnabled,
			Requests:  &rlRequests,
			Window:    cfg.RateLimit.Window.String(),
			Whitelist: cfg.RateLimit.Whitelist,
		},
		CORS: &config.FileCORS{AllowedOrigins: cfg.CORS.AllowedOrigins},
		Telemetry: &config.FileTelemetry{
			Enabled:      &otelEnabled,
			Exporter:     cfg.Telemetry.Exporter,
			Endpoint:     cfg.Telemetry.Endpoint,
			SamplingRate: &sampling,
			Environment:  cfg.Telemetry.Environment,
		},
		Metrics: &config.FileMetrics{Enabled: &metricsEnabled},
	}
}

func redactFileConfigSecrets(cfg *config.FileConfig) {
	if cfg == nil || cfg.Store == nil {
		return
	}
	if r := cfg.Store.Redis; r != nil && r.Password != "" {
		r.Password = redacted
	}
	if m := cfg.Store.Mongo; m != nil && m.URI != "" {
		m.URI = maskURL(m.URI)
	}
}
