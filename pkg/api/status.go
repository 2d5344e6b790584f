package api

import (
	"fmt"
	"os"
	"time"
)

// State classifies an output's freshness.
type State int

const (
	UpToDate State = iota
	FileMissing
	OutOfDate
	Forced
	CannotDetermine
)

func (s State) String() string {
	switch s {
	case UpToDate:
		return "up-to-date"
	case FileMissing:
		return "file-missing"
	case OutOfDate:
		return "out-of-date"
	case Forced:
		return "forced"
	case CannotDetermine:
		return "cannot-determine"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// OutputStatus is the result of a freshness check. Err carries the failed
// metadata lookup when State is CannotDetermine.
type OutputStatus struct {
	State State
	Err   error
}

// ShouldBuild is true for every state except UpToDate. An undeterminable
// status counts as needing a build.
func (o OutputStatus) ShouldBuild() bool { return o.State != UpToDate }

func (o OutputStatus) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.State, o.Err)
	}
	return o.State.String()
}

// UpToDate classifies the output against the current filesystem state.
// Lookups run output, data, template and stop at the first failure.
func (s TemplateSpec) UpToDate() OutputStatus {
	if !s.HasOutput() {
		return OutputStatus{State: Forced}
	}

	if !exists(s.Output) {
		return OutputStatus{State: FileMissing}
	}

	outputModified, err := modTime(s.Output)
	if err != nil {
		return OutputStatus{State: CannotDetermine, Err: err}
	}
	dataModified, err := modTime(s.Data)
	if err != nil {
		return OutputStatus{State: CannotDetermine, Err: err}
	}
	templateModified, err := modTime(s.Template)
	if err != nil {
		return OutputStatus{State: CannotDetermine, Err: err}
	}

	if outputModified.Before(templateModified) || outputModified.Before(dataModified) {
		return OutputStatus{State: OutOfDate}
	}
	return OutputStatus{State: UpToDate}
}

// ShouldBuild reports whether the output needs to be (re)generated.
func (s TemplateSpec) ShouldBuild() bool {
	return s.UpToDate().ShouldBuild()
}

func modTime(p string) (time.Time, error) {
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
