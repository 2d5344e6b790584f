package processing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/systemstart/ttgen/pkg/api"
	"github.com/systemstart/ttgen/pkg/render"
)

const lockFilename = ".ttgen.lock"

// Action records what a run did with a spec.
type Action int

const (
	ActionSkipped Action = iota
	ActionBuilt
	ActionWouldBuild
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionSkipped:
		return "skipped"
	case ActionBuilt:
		return "built"
	case ActionWouldBuild:
		return "would build"
	case ActionFailed:
		return "failed"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Options control a run.
type Options struct {
	// Force renders every selected spec regardless of its status.
	Force bool
	// DryRun classifies specs without rendering or writing anything.
	DryRun bool
	// Select limits the run to specs whose name matches a doublestar pattern.
	Select        []string
	GlobalContext map[string]any
	// Stdout receives output of specs without an output path. Defaults to os.Stdout.
	Stdout   io.Writer
	Renderer *render.Renderer
}

// Result is the outcome for one spec. Spec paths are resolved against the
// manifest directory.
type Result struct {
	Spec   api.TemplateSpec
	Status api.OutputStatus
	Action Action
	Err    error
}

// Summary collects the results of one manifest run.
type Summary struct {
	Manifest string
	Results  []Result
}

// Failed returns the names of specs that failed.
func (s *Summary) Failed() []string {
	return s.namesWith(ActionFailed)
}

// Pending returns the names of specs a dry run would have built.
func (s *Summary) Pending() []string {
	return s.namesWith(ActionWouldBuild)
}

func (s *Summary) namesWith(action Action) []string {
	var names []string
	for _, r := range s.Results {
		if r.Action == action {
			names = append(names, r.Spec.Name)
		}
	}
	return names
}

// Run builds every selected spec of the manifest whose output should be built.
// A failing spec does not stop the run; the returned error lists all failures.
func Run(m *api.Manifest, opts Options) (*Summary, error) {
	specs, err := SelectSpecs(m.Specs, opts.Select)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		unlock, err := lockManifest(m)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	if opts.Renderer == nil {
		opts.Renderer = render.New()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	slog.Info("processing manifest", "path", m.FilePath, "specs", len(specs), "dryRun", opts.DryRun, "force", opts.Force)

	summary := &Summary{Manifest: m.FilePath}
	for _, spec := range specs {
		result := buildSpec(spec.Resolve(m.Dir), opts)
		logResult(result)
		summary.Results = append(summary.Results, result)
	}

	if failed := summary.Failed(); len(failed) > 0 {
		return summary, fmt.Errorf("%d spec(s) failed: %v", len(failed), failed)
	}
	return summary, nil
}

// Check classifies the manifest's specs without building anything.
func Check(m *api.Manifest, opts Options) (*Summary, error) {
	opts.DryRun = true
	return Run(m, opts)
}

// RunAll discovers manifests below root and runs each of them.
func RunAll(root string, maxDepth int, opts Options) ([]*Summary, error) {
	paths, err := DiscoverManifests(root, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("discovering manifests: %w", err)
	}

	if len(paths) == 0 {
		slog.Warn("no manifest files found", "dir", root)
		return nil, nil
	}

	slog.Info("discovered manifests", "count", len(paths))

	var (
		summaries []*Summary
		failed    []string
	)
	for _, p := range paths {
		m, err := api.LoadManifest(p)
		if err != nil {
			slog.Error("failed to load manifest", "path", p, "error", err)
			failed = append(failed, p)
			continue
		}

		summary, err := Run(m, opts)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			slog.Error("manifest failed", "path", p, "error", err)
			failed = append(failed, p)
		}
	}

	if len(failed) > 0 {
		return summaries, fmt.Errorf("%d manifest(s) failed: %v", len(failed), failed)
	}
	return summaries, nil
}

func buildSpec(spec api.TemplateSpec, opts Options) Result {
	result := Result{Spec: spec}

	if err := spec.ValidateFiles(); err != nil {
		result.Action = ActionFailed
		result.Err = api.Wrap(api.KindMissing, err)
		return result
	}

	result.Status = spec.UpToDate()
	if result.Status.State == api.CannotDetermine {
		slog.Warn("cannot determine output status, rebuilding", "spec", spec.Name, "error", result.Status.Err)
	}

	if !result.Status.ShouldBuild() && !opts.Force {
		result.Action = ActionSkipped
		return result
	}

	if opts.DryRun {
		result.Action = ActionWouldBuild
		return result
	}

	if err := renderSpec(spec, opts); err != nil {
		result.Action = ActionFailed
		result.Err = err
		return result
	}

	result.Action = ActionBuilt
	return result
}

func renderSpec(spec api.TemplateSpec, opts Options) error {
	data, err := render.LoadData(spec.Data)
	if err != nil {
		return err
	}

	content, err := opts.Renderer.RenderFile(spec.Template, MergeContext(opts.GlobalContext, data))
	if err != nil {
		return err
	}

	if spec.HasOutput() {
		return render.WriteOutput(spec.Output, content)
	}

	if _, err := opts.Stdout.Write(content); err != nil {
		return api.IOError(fmt.Errorf("writing to stdout: %w", err))
	}
	return nil
}

func logResult(r Result) {
	switch r.Action {
	case ActionFailed:
		slog.Error("spec failed", "spec", r.Spec.Name, "error", r.Err)
	case ActionBuilt:
		slog.Info("spec built", "spec", r.Spec.Name, "status", r.Status.State, "output", r.Spec.Output)
	case ActionWouldBuild:
		slog.Info("spec would be built", "spec", r.Spec.Name, "status", r.Status.State)
	default:
		slog.Debug("spec up to date", "spec", r.Spec.Name)
	}
}

// lockManifest takes an exclusive lock next to the manifest so that two runs
// never write the same outputs at once.
func lockManifest(m *api.Manifest) (func(), error) {
	lockPath := filepath.Join(m.Dir, lockFilename)
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, api.IOError(fmt.Errorf("acquire lock %s: %w", lockPath, err))
	}
	if !ok {
		return nil, api.IOError(fmt.Errorf("manifest %s is locked by another run (%s)", m.FilePath, lockPath))
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release lock", "path", lockPath, "error", err)
		}
	}, nil
}
