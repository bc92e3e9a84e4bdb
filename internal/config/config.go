// Package config parses the kernel's configuration file: one
// directive per line, `#` comments, `key=value` pairs, read with
// bufio.Scanner in the spirit of the teacher's config/configparser
// tokenizer, scoped down from its device/model grammar to the
// kernel's own knobs.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Config holds every tunable the kernel needs at boot.
type Config struct {
	Scheduler    string // "fcfs" | "rr" | "priority"
	Replacement  string // "fifo" | "aging"
	NumProcesses int
	NumFrames    int
	NumTerminals int
	PageSize     int
	QuantumInit  int
	TimerTicks   int
	DiskLatency  int
	ProtectedMem int // frames reserved at boot for the trap handler
	LogFile      string
	Debug        bool
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Scheduler:    "priority",
		Replacement:  "aging",
		NumProcesses: 8,
		NumFrames:    16,
		NumTerminals: 4,
		PageSize:     64,
		QuantumInit:  5,
		TimerTicks:   10,
		DiskLatency:  5,
		ProtectedMem: 1,
		LogFile:      "ttykernel.log",
		Debug:        false,
	}
}

// Load parses a config file on top of Default(), returning an error
// for unknown keys or malformed values.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("config: line %d: expected key=value, got %q", lineNo, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "scheduler":
		c.Scheduler = value
	case "replacement":
		c.Replacement = value
	case "processes":
		return assignInt(&c.NumProcesses, value)
	case "frames":
		return assignInt(&c.NumFrames, value)
	case "terminals":
		return assignInt(&c.NumTerminals, value)
	case "pagesize":
		return assignInt(&c.PageSize, value)
	case "quantum":
		return assignInt(&c.QuantumInit, value)
	case "timerticks":
		return assignInt(&c.TimerTicks, value)
	case "disklatency":
		return assignInt(&c.DiskLatency, value)
	case "protectedmem":
		return assignInt(&c.ProtectedMem, value)
	case "logfile":
		c.LogFile = value
	case "debug":
		c.Debug = value == "true" || value == "1"
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func assignInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q: %w", value, err)
	}
	*dst = n
	return nil
}
