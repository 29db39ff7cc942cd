// Package matcher pairs the input files of a batch with the externally
// authored list of output titles.
//
// Inputs are the Matroska files of a directory in natural order. Titles come
// from a plain text file, one per line, sanitized through the substitution
// engine and numbered from a configurable start index.
package matcher

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"

	"trackmux/internal/media"
	"trackmux/internal/services"
	"trackmux/internal/substitution"
)

// DefaultStopMarker ends the name list early when found on its own line.
const DefaultStopMarker = "#end"

// ErrCountMismatch reports that the number of inputs and titles differ.
var ErrCountMismatch = errors.New("input and title counts differ")

// CountMismatchError carries the counts behind ErrCountMismatch.
type CountMismatchError struct {
	Inputs int
	Titles int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%d input files but %d titles", e.Inputs, e.Titles)
}

func (e *CountMismatchError) Unwrap() error { return ErrCountMismatch }

// PadType controls zero padding of the output index.
type PadType string

const (
	PadNone     PadType = "none"
	PadTen      PadType = "ten"
	PadHundred  PadType = "hundred"
	PadThousand PadType = "thousand"
)

// Width is the minimum number of digits for the pad type.
func (p PadType) Width() int {
	switch p {
	case PadTen:
		return 2
	case PadHundred:
		return 3
	case PadThousand:
		return 4
	default:
		return 0
	}
}

// Valid reports whether p is a known pad type. The empty value means none.
func (p PadType) Valid() bool {
	switch p {
	case "", PadNone, PadTen, PadHundred, PadThousand:
		return true
	}
	return false
}

// Options configures Match.
type Options struct {
	InputDir  string
	OutputDir string
	NamesFile string
	StartFrom int
	Pad       PadType
	// StopMarker truncates the name list; empty disables it.
	StopMarker string
	// Engine sanitizes each title. Nil leaves titles trimmed but otherwise untouched.
	Engine *substitution.Engine
}

// Pair is one unit of batch work.
type Pair struct {
	Index  int
	Input  string
	Output string
	Title  string
}

// Names is the parsed name list.
type Names struct {
	Titles []string
	// Stopped is true when the stop marker ended the list.
	Stopped bool
}

// ReadNames parses a name list. Blank lines and lines starting with '#' are
// skipped; the stop marker is checked first so it may itself start with '#'.
func ReadNames(r io.Reader, engine *substitution.Engine, stopMarker string) (Names, error) {
	var names Names
	stopMarker = strings.TrimSpace(stopMarker)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if stopMarker != "" && line == stopMarker {
			names.Stopped = true
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		title := line
		if engine != nil {
			title = engine.Apply(line)
		}
		if title == "" {
			continue
		}
		names.Titles = append(names.Titles, title)
	}
	if err := scanner.Err(); err != nil {
		return Names{}, fmt.Errorf("read names: %w", err)
	}
	return names, nil
}

// ListInputs returns the Matroska files directly inside dir in natural order.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	inputs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !media.MatchesExtension(entry.Name(), []string{"mkv"}) {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, entry.Name()))
	}
	SortNatural(inputs)
	return inputs, nil
}

// SortNatural orders paths so embedded numbers compare by value.
func SortNatural(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
}

// FormatName renders "<index> - <title>.mkv" with the index zero padded.
func FormatName(index int, pad PadType, title string) string {
	return fmt.Sprintf("%0*d - %s.mkv", pad.Width(), index, title)
}

// Match reads the inputs and the name list and pairs them in order.
func Match(opts Options) ([]Pair, error) {
	if !opts.Pad.Valid() {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "match", fmt.Sprintf("unknown pad type %q", opts.Pad), nil)
	}
	inputs, err := ListInputs(opts.InputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "list inputs", opts.InputDir, err)
	}

	file, err := os.Open(opts.NamesFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "open names", opts.NamesFile, err)
	}
	defer file.Close()
	names, err := ReadNames(file, opts.Engine, opts.StopMarker)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "read names", opts.NamesFile, err)
	}

	if names.Stopped && len(inputs) > len(names.Titles) {
		inputs = inputs[:len(names.Titles)]
	}
	if len(inputs) != len(names.Titles) {
		mismatch := &CountMismatchError{Inputs: len(inputs), Titles: len(names.Titles)}
		return nil, services.Wrap(services.ErrConfiguration, "matcher", "match", "", mismatch)
	}

	pairs := make([]Pair, len(inputs))
	for i, input := range inputs {
		index := opts.StartFrom + i
		title := names.Titles[i]
		pairs[i] = Pair{
			Index:  index,
			Input:  input,
			Output: filepath.Join(opts.OutputDir, FormatName(index, opts.Pad, title)),
			Title:  title,
		}
	}
	return pairs, nil
}
