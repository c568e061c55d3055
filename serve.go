package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/neurodesk/layout/pkg/layout"
	"github.com/yuin/goldmark"
)

// server renders templates per request. Final rendered text is cached
// by request name; the core engine itself stays cache-free and any
// template file change purges the whole cache, since one file can sit
// in many inheritance chains.
type server struct {
	engine   *layout.Engine
	vars     layout.Context
	markdown bool

	mu       sync.Mutex
	rendered map[string]string
}

func (srv *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[1:]
	if name == "" || name[len(name)-1] == '/' {
		name += "index.html"
	}

	srv.mu.Lock()
	out, ok := srv.rendered[name]
	srv.mu.Unlock()

	if !ok {
		var err error
		out, err = srv.engine.Render(r.Context(), name, srv.vars)
		if err != nil {
			var nf layout.TemplateNotFoundError
			if errors.As(err, &nf) {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "%s", err)
			slog.Error("render failed", "template", name, "error", err)
			return
		}
		srv.mu.Lock()
		srv.rendered[name] = out
		srv.mu.Unlock()
	}

	switch path.Ext(name) {
	case ".md":
		if srv.markdown {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(out), &buf); err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				slog.Error("markdown conversion failed", "template", name, "error", err)
				return
			}
			out = buf.String()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case ".html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	_, _ = w.Write([]byte(out))
}

func (srv *server) purge(file string) {
	srv.mu.Lock()
	n := len(srv.rendered)
	srv.rendered = map[string]string{}
	srv.mu.Unlock()
	if n > 0 {
		slog.Info("template changed, cache cleared", "file", file, "entries", n)
	}
}

func serveMain(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "layout.yaml", "Path to the project configuration")
	contextPath := fs.String("context", "", "Path to a yaml file with render variables")
	addr := fs.String("addr", "", "Listen address, overrides the config")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	vars, err := loadContext(*contextPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}

	srv := &server{
		engine:   newEngine(cfg),
		vars:     vars,
		markdown: cfg.Serve.Markdown,
		rendered: map[string]string{},
	}

	if cfg.Templates.URL == "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %v", err)
		}
		defer watcher.Close()
		for _, dir := range cfg.Templates.Dirs {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %v", dir, err)
			}
		}
		go func() {
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					srv.purge(ev.Name)
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					slog.Warn("watch error", "error", err)
				}
			}
		}()
	} else {
		slog.Info("remote template source, change watching disabled")
	}

	s := &http.Server{
		Addr:           cfg.Serve.Addr,
		Handler:        srv,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	slog.Info("serving templates", "addr", cfg.Serve.Addr)
	return s.ListenAndServe()
}
