// Package cli implements the c4hscore command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/c4hscore/internal/adapters/repository"
	service "github.com/okian/c4hscore/internal/app"
	"github.com/okian/c4hscore/internal/config"
	"github.com/okian/c4hscore/pkg/logger"
	"github.com/okian/c4hscore/pkg/metrics"
)

type command func(ctx context.Context, env *runEnv, args []string) error

var commands = map[string]command{
	"new":           runNew,
	"show":          runShow,
	"add-arena":     runAddArena,
	"add-class":     runAddClass,
	"add-rider":     runAddRider,
	"add-horse":     runAddHorse,
	"add-combo":     runAddCombo,
	"import":        runImport,
	"articles":      runArticles,
	"export-sqlite": runExportSQLite,
}

// usages is kept apart from commands: the command funcs read it.
var usages = map[string]string{
	"new":           "new [-name NAME] [-details TEXT] FILE",
	"show":          "show FILE",
	"add-arena":     "add-arena -id ID [-name NAME] FILE",
	"add-class":     "add-class [-arena ID] [-name NAME] [-article ID] [-height CM] FILE",
	"add-rider":     "add-rider -surname S [-given G] [-ea NUMBER] FILE",
	"add-horse":     "add-horse -name NAME [-ea NUMBER] FILE",
	"add-combo":     "add-combo -id ID [-surname S] [-given G] [-horse NAME] FILE",
	"import":        "import -csv NOMINATIONS.csv FILE",
	"articles":      "articles [-file PATH]",
	"export-sqlite": "export-sqlite -out DB FILE",
}

type runEnv struct {
	cfg    *config.Config
	svc    *service.Service
	out    io.Writer
	errOut io.Writer
}

// Run executes the command named by args[0].
func Run(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if len(args) == 0 {
		printUsage(errOut)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(errOut)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	env := &runEnv{
		cfg: cfg,
		svc: service.New(
			service.WithLogger(logger.Named("service")),
			service.WithStore(repository.NewFileStore(repository.WithIndent(cfg.Indent))),
			service.WithDefaultArena(cfg.DefaultArena),
		),
		out:    out,
		errOut: errOut,
	}
	err := cmd(ctx, env, args[1:])

	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Get().Warn(ctx, "failed to write metrics textfile",
				logger.String("path", cfg.MetricsTextfile), logger.Error(werr))
		}
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(usages))
	for name := range usages {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "usage: c4hscore <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", usages[name])
	}
}

func (e *runEnv) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	fs.Usage = func() {
		fmt.Fprintf(e.errOut, "usage: c4hscore %s\n", usages[name])
		fs.PrintDefaults()
	}
	return fs
}

// eventPath returns the single positional FILE argument, resolved against the data directory.
func (e *runEnv) eventPath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usages[fs.Name()])
	}
	return e.resolve(fs.Arg(0)), nil
}

func (e *runEnv) resolve(path string) string {
	if filepath.IsAbs(path) || e.cfg.DataDir == "" {
		return path
	}
	return filepath.Join(e.cfg.DataDir, path)
}

// mutate opens the event at path, applies change and saves it back.
func (e *runEnv) mutate(ctx context.Context, path string, change func() error) error {
	if _, err := e.svc.Open(ctx, path); err != nil {
		return err
	}
	if err := change(); err != nil {
		return err
	}
	return e.svc.Save(ctx)
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: -%s is required", ErrUsage, name)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
