// Package hdr reads .hdr files into a flat key/value mapping.
//
// Two layouts exist. Current instruments write "key: value" lines after a
// softwareVersion line. Early instruments wrote a few lines of free text
// followed by a row of column names and a row of values. Values are kept as
// strings; Float and Int convert on demand.
package hdr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Context holds the free-text part of a header.
const Context = "context"

// Known keys of legacy headers, in column order.
const (
	Temperature                        = "temperature"
	Humidity                           = "humidity"
	BinarizeThreshold                  = "binarizeThreshold"
	ScatteringPhotomultiplierSetting   = "scatteringPhotomultiplierSetting"
	FluorescencePhotomultiplierSetting = "fluorescencePhotomultiplierSetting"
	BlobSizeThreshold                  = "blobSizeThreshold"
)

var legacyKeys = []string{
	Temperature,
	Humidity,
	BinarizeThreshold,
	ScatteringPhotomultiplierSetting,
	FluorescencePhotomultiplierSetting,
	BlobSizeThreshold,
}

const legacyVersionLine = "Imaging FlowCytobot Acquisition Software version 2.0; May 2010"

var (
	modernRE   = regexp.MustCompile(`^[Ss]oftwareVersion:`)
	spacesRE   = regexp.MustCompile(` +`)
	quoteComma = strings.NewReplacer(`"`, " ", ",", " ")
)

// Header is the parsed content of a .hdr file.
type Header map[string]string

// Get returns the value of key.
func (h Header) Get(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

// Float returns the value of key as a float64.
func (h Header) Float(key string) (float64, error) {
	v, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("hdr: no key %q", key)
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// Int returns the value of key as an int.
func (h Header) Int(key string) (int, error) {
	v, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("hdr: no key %q", key)
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

// Parse reads a header. An empty input yields an empty header.
func Parse(r io.Reader) (Header, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), " \t\r\n"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hdr: %w", err)
	}
	return ParseLines(lines), nil
}

// ParseFile reads the header at path.
func ParseFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseLines parses a header given as lines without terminators.
func ParseLines(lines []string) Header {
	h := Header{}
	if len(lines) == 0 {
		return h
	}

	switch {
	case lines[0] == legacyVersionLine:
		h[Context] = lines[0]
	case modernRE.MatchString(lines[0]):
		h[Context] = lines[0]
		for _, line := range lines[1:] {
			// Lines that are not exactly one "key: value" pair are skipped.
			parts := strings.Split(line, ": ")
			if len(parts) != 2 {
				continue
			}
			h[parts[0]] = parts[1]
		}
	default:
		n := max(len(lines)-2, 0)
		ctx := make([]string, n)
		for i, line := range lines[:n] {
			ctx[i] = strings.Trim(line, `"`)
		}
		h[Context] = strings.Join(ctx, "\n")
		if len(lines) < 6 {
			break
		}
		values := spacesRE.Split(strings.TrimSpace(quoteComma.Replace(lines[len(lines)-1])), -1)
		for i, key := range legacyKeys {
			if i >= len(values) {
				break
			}
			h[key] = values[i]
		}
	}
	return h
}
