package engine

import (
	"github.com/printforge/strand/pkg/gcode"
	"github.com/printforge/strand/pkg/path"
)

// Job is the output of evaluating a toolpath script: the ordered paths
// the script emitted plus the machine settings it configured.
type Job struct {
	Paths    []*path.Path
	Settings gcode.Settings
}

// NewJob returns an empty job with default settings.
func NewJob() *Job {
	return &Job{Settings: gcode.DefaultSettings()}
}

// GCode renders the job's paths as machine instruction text.
func (j *Job) GCode() string {
	return gcode.New(j.Settings).Generate(j.Paths)
}
