package engine

import (
	"math"
	"strings"
	"testing"
)

// eval evaluates source and fails the test on fatal or eval errors.
func eval(t *testing.T, source string) *Job {
	t.Helper()
	job, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal evaluation error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return job
}

// evalExpectingErrors evaluates source and fails unless eval errors occur.
func evalExpectingErrors(t *testing.T, source string) []EvalError {
	t.Helper()
	job, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal evaluation error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors, got none")
	}
	if job != nil {
		t.Error("job should be nil when evaluation fails")
	}
	return evalErrs
}

func TestEmptySource(t *testing.T) {
	job := eval(t, "")
	if job == nil {
		t.Fatal("empty source should produce an empty job")
	}
	if len(job.Paths) != 0 {
		t.Errorf("expected no paths, got %d", len(job.Paths))
	}
}

func TestCircleScript(t *testing.T) {
	job := eval(t, `(emit (circle :radius 10 :z 0.2 :points 12))`)

	if len(job.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(job.Paths))
	}
	p := job.Paths[0]
	if p.Len() != 13 {
		t.Errorf("expected 13 points (12 segments, closed), got %d", p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		if p.Z[i] != 0.2 {
			t.Fatalf("z[%d] = %v, want 0.2", i, p.Z[i])
		}
		if r := math.Hypot(p.X[i], p.Y[i]); math.Abs(r-10) > 1e-9 {
			t.Fatalf("point %d at radius %v, want 10", i, r)
		}
	}
}

func TestLineInfillScript(t *testing.T) {
	job := eval(t, `
		(def outline (circle :radius 5 :z 0.2))
		(emit outline (line-infill outline :distance 1))
	`)
	if len(job.Paths) != 2 {
		t.Fatalf("expected outline + infill, got %d paths", len(job.Paths))
	}
	if job.Paths[1].Len() == 0 {
		t.Error("infill path should have points")
	}
}

func TestGyroidInfillScript(t *testing.T) {
	job := eval(t, `(emit (gyroid-infill (circle :radius 5 :z 0.2) :distance 2))`)
	if len(job.Paths) == 0 {
		t.Fatal("expected gyroid paths to be emitted")
	}
}

func TestTransformScript(t *testing.T) {
	job := eval(t, `(emit (translate (circle :radius 1 :points 8) :x 10 :y -5 :z 0.4))`)
	if len(job.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(job.Paths))
	}
	p := job.Paths[0]
	if math.Abs(p.X[0]-11) > 1e-9 || math.Abs(p.Y[0]+5) > 1e-9 || p.Z[0] != 0.4 {
		t.Errorf("translated first point: (%v, %v, %v)", p.X[0], p.Y[0], p.Z[0])
	}
}

func TestSetSettings(t *testing.T) {
	job := eval(t, `
		(set-setting :layer-height 0.3 :fan-speed 128)
		(set-setting :retraction true)
	`)
	if job.Settings.LayerHeight != 0.3 {
		t.Errorf("layer height: got %v, want 0.3", job.Settings.LayerHeight)
	}
	if job.Settings.FanSpeed != 128 {
		t.Errorf("fan speed: got %d, want 128", job.Settings.FanSpeed)
	}
	if !job.Settings.Travel.Retraction {
		t.Error("retraction should be enabled")
	}
}

func TestUnknownSetting(t *testing.T) {
	errs := evalExpectingErrors(t, `(set-setting :warp-drive 9)`)
	if !strings.Contains(errs[0].Message, "warp-drive") {
		t.Errorf("error should name the unknown setting, got %q", errs[0].Message)
	}
}

func TestMissingRadius(t *testing.T) {
	evalExpectingErrors(t, `(emit (circle :z 0.2))`)
}

func TestParseError(t *testing.T) {
	evalExpectingErrors(t, `(emit (circle :radius 10`)
}

func TestJobGCode(t *testing.T) {
	job := eval(t, `
		(set-setting :nozzle-temperature 215)
		(emit (circle :radius 10 :z 0.2 :points 16))
	`)
	out := job.GCode()
	if !strings.Contains(out, "M104 S215") {
		t.Error("gcode should honor scripted nozzle temperature")
	}
	if !strings.Contains(out, "G1 ") {
		t.Error("gcode should contain printing moves")
	}
}

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource(`(circle :radius 10)`)
	want := `(circle "__kw_radius" 10)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessKebab(t *testing.T) {
	got := preprocessSource(`(line-infill p :distance 1)`)
	if !strings.Contains(got, "line_infill") {
		t.Errorf("kebab identifier not converted: %q", got)
	}
	// Keyword names keep their hyphens; they become string literals.
	if !strings.Contains(got, `"__kw_distance"`) {
		t.Errorf("keyword not converted: %q", got)
	}
}

func TestPreprocessPreservesStrings(t *testing.T) {
	got := preprocessSource(`(def s "a-b :c")`)
	if !strings.Contains(got, `"a-b :c"`) {
		t.Errorf("string literal was modified: %q", got)
	}
}

func TestPreprocessMinus(t *testing.T) {
	got := preprocessSource(`(- 5 3)`)
	if got != `(- 5 3)` {
		t.Errorf("subtraction mangled: %q", got)
	}
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource("(emit p) ; trailing note\n")
	if !strings.Contains(got, "// trailing note") {
		t.Errorf("comment not converted: %q", got)
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	e := NewEngine()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			e.Evaluate(`(emit (circle :radius 2 :points 8))`)
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
