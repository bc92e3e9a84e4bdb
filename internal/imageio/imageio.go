// Package imageio reads program images from a small text format so
// the standalone driver and tests can load images from disk without
// a real assembler/object format: a header line "entry size"
// followed by whitespace-separated byte values, one program per
// file. Uses bufio.Scanner the way the teacher's config parsers tokenize
// line-oriented input.
package imageio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dcvieira/ttyos/internal/machine"
)

// ReadImage parses the text image format from r.
func ReadImage(r io.Reader) (*machine.MemImage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entry, size int
	haveHeader := false
	data := make([]byte, 0, 64)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if !haveHeader {
			if len(fields) != 2 {
				return nil, fmt.Errorf("imageio: header must be \"entry size\", got %q", line)
			}
			e, err := strconv.ParseInt(fields[0], 0, 64)
			if err != nil {
				return nil, fmt.Errorf("imageio: bad entry address: %w", err)
			}
			s, err := strconv.ParseInt(fields[1], 0, 64)
			if err != nil {
				return nil, fmt.Errorf("imageio: bad size: %w", err)
			}
			entry, size = int(e), int(s)
			haveHeader = true
			continue
		}
		for _, f := range fields {
			v, err := strconv.ParseInt(f, 0, 16)
			if err != nil {
				return nil, fmt.Errorf("imageio: bad byte value %q: %w", f, err)
			}
			data = append(data, byte(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveHeader {
		return nil, fmt.Errorf("imageio: empty image")
	}
	if len(data) != size {
		return nil, fmt.Errorf("imageio: header declares %d bytes, found %d", size, len(data))
	}
	return &machine.MemImage{Entry: entry, Data: data}, nil
}
