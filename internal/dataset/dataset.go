// Package dataset iterates a separation dataset laid out on disk as
//
//	root/mix/<name>.wav
//	root/<label>/<name>.wav   (one directory per source label)
//
// Scanning only lists files; audio is loaded per item so workers can
// load concurrently.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nayem/sepbench/internal/signal"
)

const mixDirName = "mix"

// Item is one dataset entry: a mixture file plus the matching
// ground-truth source files. Name is the stable identifier derived from
// the mixture file name.
type Item struct {
	Name        string
	MixPath     string
	SourcePaths map[string]string
}

// Entry is a loaded item. Immutable once returned.
type Entry struct {
	Mix     *signal.Signal
	Sources map[string]*signal.Signal
}

// Load reads the mixture and all reference sources from disk.
func (it Item) Load() (*Entry, error) {
	mix, err := signal.ReadWAV(it.MixPath)
	if err != nil {
		return nil, fmt.Errorf("item %q: load mixture: %w", it.Name, err)
	}

	sources := make(map[string]*signal.Signal, len(it.SourcePaths))
	for label, path := range it.SourcePaths {
		src, err := signal.ReadWAV(path)
		if err != nil {
			return nil, fmt.Errorf("item %q: load source %q: %w", it.Name, label, err)
		}
		sources[label] = src
	}
	return &Entry{Mix: mix, Sources: sources}, nil
}

// Labels returns the source labels in estimate order.
func (e *Entry) Labels() []string {
	labels := make([]string, 0, len(e.Sources))
	for label := range e.Sources {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// References returns the source signals ordered by sorted label.
func (e *Entry) References() []*signal.Signal {
	labels := e.Labels()
	refs := make([]*signal.Signal, len(labels))
	for i, label := range labels {
		refs[i] = e.Sources[label]
	}
	return refs
}

type Dataset struct {
	Root   string
	Labels []string
	Items  []Item
}

func (d *Dataset) Len() int {
	return len(d.Items)
}

// Scan lists the dataset under root. Items are ordered by name. Source
// paths are derived from the mixture file name without checking they
// exist; a missing source surfaces as a load error for that item.
func Scan(root string) (*Dataset, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}

	var labels []string
	haveMix := false
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() == mixDirName {
			haveMix = true
			continue
		}
		labels = append(labels, e.Name())
	}
	if !haveMix {
		return nil, fmt.Errorf("scan dataset %q: no %q directory", root, mixDirName)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("scan dataset %q: no source directories", root)
	}
	sort.Strings(labels)

	mixFiles, err := os.ReadDir(filepath.Join(root, mixDirName))
	if err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}

	ds := &Dataset{Root: root, Labels: labels}
	for _, f := range mixFiles {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".wav") {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		item := Item{
			Name:        name,
			MixPath:     filepath.Join(root, mixDirName, f.Name()),
			SourcePaths: make(map[string]string, len(labels)),
		}
		for _, label := range labels {
			item.SourcePaths[label] = filepath.Join(root, label, f.Name())
		}
		ds.Items = append(ds.Items, item)
	}
	sort.Slice(ds.Items, func(i, j int) bool { return ds.Items[i].Name < ds.Items[j].Name })

	return ds, nil
}
