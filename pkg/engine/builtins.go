package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/printforge/strand/pkg/infill"
	"github.com/printforge/strand/pkg/path"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms toolpath Lisp source code before passing
// it to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: line-infill -> line_infill
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPath wraps a *path.Path so it can be passed between builtins.
type sexpPath struct {
	p *path.Path
}

func (s *sexpPath) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(path :points %d)", s.p.Len())
}
func (s *sexpPath) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toPath extracts a *path.Path from a sexpPath.
func toPath(s zygo.Sexp) (*path.Path, error) {
	if p, ok := s.(*sexpPath); ok {
		return p.p, nil
	}
	return nil, fmt.Errorf("expected path, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloats converts a Lisp list/array of numbers to a float64 slice.
func toFloats(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// kwFloat reads an optional keyword number, keeping def when absent.
func kwFloat(pa kwArgs, name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the toolpath DSL builtins into a zygomys
// environment. The builtins operate on the provided Job, populating its
// path list and settings during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, job *Job) {

	// -----------------------------------------------------------------------
	// (circle :radius 15 :z 0.2 :points 100 :center-x 0 :center-y 0)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		rv, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("circle: missing :radius")
		}
		r, err := toFloat64(rv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %v", r)
		}

		z, err := kwFloat(pa, "z", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		cx, err := kwFloat(pa, "center-x", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		cy, err := kwFloat(pa, "center-y", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}

		n := 100
		if v, ok := pa.kw["points"]; ok {
			n, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: points: %w", err)
			}
			if n < 3 {
				return zygo.SexpNull, fmt.Errorf("circle: points must be at least 3, got %d", n)
			}
		}

		return &sexpPath{p: path.Circle(cx, cy, r, z, n)}, nil
	})

	// -----------------------------------------------------------------------
	// (path [x...] [y...] [z...])
	// -----------------------------------------------------------------------
	env.AddFunction("path", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("path: want 3 coordinate lists, got %d", len(pa.positional))
		}
		x, err := toFloats(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: x: %w", err)
		}
		y, err := toFloats(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: y: %w", err)
		}
		z, err := toFloats(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: z: %w", err)
		}
		p, err := path.New(x, y, z)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPath{p: p}, nil
	})

	// -----------------------------------------------------------------------
	// (translate p :x 10 :y 0 :z 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("translate: want a path argument")
		}
		p, err := toPath(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		dx, err := kwFloat(pa, "x", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		dy, err := kwFloat(pa, "y", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		dz, err := kwFloat(pa, "z", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpPath{p: p.Translate(dx, dy, dz)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate p :angle 0.785), radians, about the z-axis
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("rotate: want a path argument")
		}
		p, err := toPath(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		angle, err := kwFloat(pa, "angle", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &sexpPath{p: p.Rotate(angle)}, nil
	})

	// -----------------------------------------------------------------------
	// (scale p :factor 2)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("scale: want a path argument")
		}
		p, err := toPath(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		factor, err := kwFloat(pa, "factor", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		return &sexpPath{p: p.Scale(factor)}, nil
	})

	// -----------------------------------------------------------------------
	// (line-infill p :distance 0.4 :angle 0.785)
	// -----------------------------------------------------------------------
	env.AddFunction("line_infill", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("line-infill: want an outline path argument")
		}
		outline, err := toPath(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line-infill: %w", err)
		}
		dv, ok := pa.kw["distance"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("line-infill: missing :distance")
		}
		distance, err := toFloat64(dv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line-infill: distance: %w", err)
		}
		angle, err := kwFloat(pa, "angle", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line-infill: %w", err)
		}

		p, err := infill.Lines(outline, distance, angle)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPath{p: p}, nil
	})

	// -----------------------------------------------------------------------
	// (gyroid-infill p :distance 1.0), returns an array of paths
	// -----------------------------------------------------------------------
	env.AddFunction("gyroid_infill", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("gyroid-infill: want an outline path argument")
		}
		outline, err := toPath(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("gyroid-infill: %w", err)
		}
		dv, ok := pa.kw["distance"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("gyroid-infill: missing :distance")
		}
		distance, err := toFloat64(dv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("gyroid-infill: distance: %w", err)
		}

		paths, err := infill.Gyroid(outline, distance)
		if err != nil {
			return zygo.SexpNull, err
		}
		arr := make([]zygo.Sexp, len(paths))
		for i, p := range paths {
			arr[i] = &sexpPath{p: p}
		}
		return env.NewSexpArray(arr), nil
	})

	// -----------------------------------------------------------------------
	// (emit p...) appends paths (or arrays of paths) to the job
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for _, arg := range args {
			if arr, ok := arg.(*zygo.SexpArray); ok {
				for _, item := range arr.Val {
					p, err := toPath(item)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("emit: %w", err)
					}
					job.Paths = append(job.Paths, p)
				}
				continue
			}
			p, err := toPath(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("emit: %w", err)
			}
			job.Paths = append(job.Paths, p)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (set-setting :layer-height 0.2 :nozzle-temperature 210 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("set_setting", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		for key, v := range pa.kw {
			if err := applySetting(&job.Settings, key, v); err != nil {
				return zygo.SexpNull, fmt.Errorf("set-setting: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})
}
