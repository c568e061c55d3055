package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/neurodesk/layout/pkg/layout"
	"github.com/neurodesk/layout/pkg/markup"
	"github.com/neurodesk/layout/pkg/netsource"
	"github.com/neurodesk/layout/pkg/script"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

func newEngine(cfg *Config) *layout.Engine {
	var src layout.Source
	if cfg.Templates.URL != "" {
		src = netsource.New(cfg.Templates.URL, cfg.Templates.CacheDir)
	} else {
		src = &layout.DirSource{Dirs: cfg.Templates.Dirs, Exts: cfg.Templates.Extensions}
	}

	var exec layout.Executor
	switch cfg.Syntax {
	case "script":
		exec = script.Executor{MaxSteps: cfg.MaxSteps}
	default:
		exec = markup.Executor{Strict: cfg.Strict}
	}

	eng := layout.New(src, exec)
	eng.MaxDepth = cfg.MaxDepth
	return eng
}

// loadContext reads render variables from a yaml file. A missing path
// yields an empty context.
func loadContext(path string) (layout.Context, error) {
	if path == "" {
		return layout.Context{}, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening context file: %v", err)
	}
	defer fh.Close()

	var vars map[string]any
	if err := yaml.NewDecoder(fh).Decode(&vars); err != nil {
		return nil, fmt.Errorf("decoding context file %s: %v", path, err)
	}
	return layout.NewContextFromAny(vars), nil
}

func renderMain(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", "layout.yaml", "Path to the project configuration")
	contextPath := fs.String("context", "", "Path to a yaml file with render variables")
	outPath := fs.String("out", "", "Write the output to a file instead of stdout")
	markdown := fs.Bool("markdown", false, "Convert the rendered output from markdown to HTML")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("render requires exactly one template name")
	}
	name := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	vars, err := loadContext(*contextPath)
	if err != nil {
		return err
	}

	out, err := newEngine(cfg).Render(context.Background(), name, vars)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	if *markdown {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(out), &buf); err != nil {
			return fmt.Errorf("converting markdown: %v", err)
		}
		out = buf.String()
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing output: %v", err)
		}
		return nil
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

func checkMain(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "layout.yaml", "Path to the project configuration")
	contextPath := fs.String("context", "", "Path to a yaml file with render variables")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("check requires exactly one template name")
	}
	name := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	vars, err := loadContext(*contextPath)
	if err != nil {
		return err
	}

	chain, err := newEngine(cfg).Chain(context.Background(), name, vars)
	if err != nil {
		return err
	}
	for _, u := range chain {
		slog.Info("template", "path", u.Path, "extends", u.ParentPath(), "blocks", u.BlockNames())
	}
	fmt.Printf("ok: %s (%d templates in chain)\n", name, len(chain))
	return nil
}

func appMain() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("a command is required: render, check, or serve")
	}
	switch os.Args[1] {
	case "render":
		return renderMain(os.Args[2:])
	case "check":
		return checkMain(os.Args[2:])
	case "serve":
		return serveMain(os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func main() {
	if err := appMain(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
