package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/internal/presentation/report"
	"github.com/aretw0/stepwise/pkg/adapters/loam"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/script"
)

// ApplyOptions configures the apply command.
type ApplyOptions struct {
	// Script is a file path, or a script name when Library is set.
	Script  string
	Library string
	// Model overrides the model name of the script.
	Model  string
	Save   bool
	Format string
}

// OpenLibrary opens a loam script library.
func OpenLibrary(dir string) (ports.ScriptSource, error) {
	return loam.Open(dir)
}

// LoadScript reads a script and merges its imports. Without a library,
// imports resolve to files next to the script.
func LoadScript(ctx context.Context, name, library string) (*script.Script, error) {
	if library != "" {
		src, err := OpenLibrary(library)
		if err != nil {
			return nil, err
		}
		return src.Script(ctx, name)
	}
	s, err := script.ParseFile(name)
	if err != nil {
		return nil, err
	}
	return script.ResolveScript(ctx, s, fileFetcher(filepath.Dir(name)))
}

var scriptExtensions = []string{".yaml", ".yml", ".json"}

// fileFetcher loads imported scripts from dir, trying each script extension.
func fileFetcher(dir string) script.Fetcher {
	return func(_ context.Context, name string) (*script.Script, error) {
		for _, ext := range scriptExtensions {
			path := filepath.Join(dir, filepath.FromSlash(name)+ext)
			if _, err := os.Stat(path); err == nil {
				return script.ParseFile(path)
			}
		}
		return nil, fmt.Errorf("script not found: %s", name)
	}
}

// ModelName picks the name a script is applied under: the explicit
// override, the script's own model, or the file name.
func ModelName(override string, s *script.Script, source string) string {
	switch {
	case override != "":
		return override
	case s.Model != "":
		return s.Model
	}
	return strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
}

// Apply runs a script. With Save it updates the stored model under the
// session lock; otherwise it applies to a fresh model and stores nothing.
func Apply(ctx context.Context, env *Env, opts ApplyOptions, w io.Writer) (*model.Model, error) {
	s, err := LoadScript(ctx, opts.Script, opts.Library)
	if err != nil {
		return nil, err
	}
	name := ModelName(opts.Model, s, opts.Script)
	if opts.Model != "" {
		s.Model = ""
	}

	var m *model.Model
	if opts.Save {
		m, err = env.Manager.ApplyScript(ctx, name, s)
	} else {
		m = model.New(name, env.ModelOptions()...)
		err = script.Apply(m, s)
	}
	if err != nil {
		var opErr *script.OpError
		if errors.As(err, &opErr) {
			env.Logger.Warn("script aborted", "model", name, "operation", opErr.Index, "err", opErr.Err)
		}
		return nil, err
	}
	env.Logger.Info("script applied", "model", name, "operations", len(s.Operations), "saved", opts.Save)
	return m, Write(w, opts.Format, report.Model(m), dto.NewModelView(m))
}

// Validate parses a script and applies it to a throwaway model.
func Validate(ctx context.Context, env *Env, name, library string) error {
	s, err := LoadScript(ctx, name, library)
	if err != nil {
		return err
	}
	return script.Apply(model.New(ModelName("", s, name), env.ModelOptions()...), s)
}
