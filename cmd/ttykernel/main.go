/*
 * ttyos - Main process.
 *
 * Copyright 2026, ttyos contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	getopt "github.com/pborman/getopt/v2"

	"github.com/dcvieira/ttyos/command/reader"
	"github.com/dcvieira/ttyos/internal/config"
	"github.com/dcvieira/ttyos/internal/imageio"
	"github.com/dcvieira/ttyos/internal/kernel"
	"github.com/dcvieira/ttyos/internal/machine"
	"github.com/dcvieira/ttyos/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "ttykernel.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optImages := getopt.StringLong("images", 'i', "images", "Directory of program images")
	optInit := getopt.StringLong("init", 0, "init", "Name of the image to spawn as the init process")
	optTrap := getopt.StringLong("trap", 0, "", "Name of the trap-handler image (none loads no handler)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if f, err := os.Open(*optConfig); err == nil {
		defer f.Close()
		cfg, err = config.Load(f)
		if err != nil {
			fatal("config: " + err.Error())
		}
	}
	if *optLogFile != "" {
		cfg.LogFile = *optLogFile
	}

	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		logFile, err := os.Create(cfg.LogFile)
		if err != nil {
			fatal("log: " + err.Error())
		}
		defer logFile.Close()
		logOut = logFile
	}
	level := new(slog.LevelVar)
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
	debug := cfg.Debug
	Logger = slog.New(logger.NewHandler(logOut, &slog.HandlerOptions{Level: level}, &debug))
	slog.SetDefault(Logger)
	Logger.Info("ttykernel started")

	images := newDirResolver(*optImages, cfg.PageSize)

	initImg, ok := images.Resolve(*optInit)
	if !ok {
		fatal("can't find init image " + *optInit + " in " + *optImages)
	}

	var trapImg machine.Image
	if *optTrap != "" {
		trapImg, ok = images.Resolve(*optTrap)
		if !ok {
			fatal("can't find trap handler image " + *optTrap + " in " + *optImages)
		}
	}

	cpu := machine.NewCPU()
	mmu := machine.NewMMU(cfg.PageSize)
	mem := machine.NewByteMemory(cfg.NumFrames * cfg.PageSize)
	sec := machine.NewByteMemory(64 * cfg.NumProcesses * cfg.PageSize)
	io := machine.NewIO(cfg.NumTerminals)

	k, err := kernel.New(kernel.Config{
		Scheduler:    cfg.Scheduler,
		Replacement:  cfg.Replacement,
		NumProcesses: cfg.NumProcesses,
		NumFrames:    cfg.NumFrames,
		NumTerminals: cfg.NumTerminals,
		PageSize:     cfg.PageSize,
		QuantumInit:  cfg.QuantumInit,
		TimerTicks:   cfg.TimerTicks,
		DiskLatency:  cfg.DiskLatency,
		ProtectedMem: cfg.ProtectedMem,
	}, cpu, mmu, mem, sec, io, trapImg, initImg, images, Logger)
	if err != nil {
		fatal("kernel: " + err.Error())
	}

	if rc := k.HandleTrap(machine.Reset); rc != 0 {
		Logger.Warn("reset left the system idle; no init process dispatched")
	}

	reader.ConsoleReader(k)
	Logger.Info("ttykernel shutting down")
}

func fatal(msg string) {
	if Logger != nil {
		Logger.Error(msg)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}

// dirResolver resolves SPAWN's image-name argument to a file
// "<name>.img" under a directory, parsed with the text image format,
// caching each image after its first load.
type dirResolver struct {
	dir      string
	pageSize int
	cache    map[string]*machine.MemImage
}

func newDirResolver(dir string, pageSize int) *dirResolver {
	return &dirResolver{dir: dir, pageSize: pageSize, cache: map[string]*machine.MemImage{}}
}

func (d *dirResolver) Resolve(name string) (machine.Image, bool) {
	if name == "" {
		return nil, false
	}
	if img, ok := d.cache[name]; ok {
		return img, true
	}
	f, err := os.Open(filepath.Join(d.dir, name+".img"))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, err := imageio.ReadImage(f)
	if err != nil {
		slog.Error("failed to load image", "name", name, "err", err)
		return nil, false
	}
	d.cache[name] = img
	return img, true
}
