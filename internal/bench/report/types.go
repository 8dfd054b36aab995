package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Meta    BenchMeta      `json:"meta"`
	Configs []ConfigReport `json:"configs"`
}

type BenchMeta struct {
	RunID       uuid.UUID       `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    time.Duration   `json:"duration_ns"`
	DatasetRoot string          `json:"dataset_root,omitempty"`
	DatasetSize int             `json:"dataset_size"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// ConfigReport aggregates the score records actually present in one
// configuration's output directory. Items is the number of records
// read, which can fall short of the dataset size when items failed.
type ConfigReport struct {
	Label     string             `json:"label"`
	Variant   string             `json:"variant"`
	OutputDir string             `json:"output_dir"`
	Items     int                `json:"items"`
	Failed    int                `json:"failed"`
	Means     map[string]float64 `json:"means"`
}
