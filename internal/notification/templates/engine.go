package templates

import (
	"bytes"
	"context"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	texttmpl "text/template"
)

// Config controls how the template engine loads templates.
// Dir: when non-empty, loads templates from this directory (expects files named <id>.tmpl).
// Reload: when true and Dir is set, templates are reparsed on every render.
type Config struct {
	Dir    string
	Reload bool
}

// Rendered holds the per-channel materialized content from a scenario template.
// EmailHTML is produced through html/template, so user-supplied values (names,
// profile fields) are escaped before they reach an inbox.
type Rendered struct {
	Subject   string
	EmailHTML string
	SMSText   string
}

// Handle is a typed handle for a template scenario. Pairing the template ID
// with its data type at the declaration site keeps render call sites honest.
type Handle[T any] struct {
	id string
}

// Expect creates a typed handle for a given template ID (e.g. "user.verify_email").
func Expect[T any](id string) Handle[T] { return Handle[T]{id: id} }

func (h Handle[T]) ID() string { return h.id }

// Renderer is the DI-friendly interface for the engine.
type Renderer interface {
	// RenderAny renders the given template ID with arbitrary data. Prefer the
	// typed Render helper with a Handle[T] in internal code.
	RenderAny(ctx context.Context, id string, data any) (Rendered, error)
}

// Engine compiles and renders scenario templates with optional dev reload.
type Engine struct {
	cfg   Config
	log   *slog.Logger
	fs    fs.FS
	mu    sync.RWMutex
	cache map[string]*compiled
}

type compiled struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

// NewEngine creates a template engine. It uses embedded templates by default.
// If cfg.Dir is provided, templates are loaded from disk; if cfg.Reload is
// true, disk templates are reparsed on every render call.
func NewEngine(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Engine{
		cfg:   cfg,
		log:   log,
		fs:    EmbeddedFS,
		cache: make(map[string]*compiled),
	}
}

// Render is a typed helper that enforces the data type associated with the
// handle at compile time.
func Render[T any](ctx context.Context, r Renderer, h Handle[T], data T) (Rendered, error) {
	return r.RenderAny(ctx, h.ID(), data)
}

// RenderAny renders a scenario by ID using either embedded or disk templates.
// Only the blocks the template defines are materialized.
func (e *Engine) RenderAny(_ context.Context, id string, data any) (Rendered, error) {
	c, err := e.getCompiled(id)
	if err != nil {
		return Rendered{}, err
	}

	var out Rendered
	if c.text.Lookup("subject") != nil {
		if out.Subject, err = execText(c.text, "subject", data); err != nil {
			return Rendered{}, fmt.Errorf("render subject: %w", err)
		}
	}
	if c.text.Lookup("sms_text") != nil {
		if out.SMSText, err = execText(c.text, "sms_text", data); err != nil {
			return Rendered{}, fmt.Errorf("render sms_text: %w", err)
		}
	}
	if c.html.Lookup("email_html") != nil {
		if out.EmailHTML, err = execHTML(c.html, "email_html", data); err != nil {
			return Rendered{}, fmt.Errorf("render email_html: %w", err)
		}
	}

	return out, nil
}

func (e *Engine) getCompiled(id string) (*compiled, error) {
	if e.cfg.Dir != "" && e.cfg.Reload {
		return e.parseFromDisk(id)
	}

	e.mu.RLock()
	cached, ok := e.cache[id]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var (
		c   *compiled
		err error
	)
	if e.cfg.Dir != "" {
		c, err = e.parseFromDisk(id)
	} else {
		c, err = e.parseFromEmbed(id)
	}
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[id] = c
	e.mu.Unlock()
	return c, nil
}

func (e *Engine) parseFromDisk(id string) (*compiled, error) {
	path := filepath.Join(e.cfg.Dir, id+".tmpl")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template from disk %q: %w", path, err)
	}
	return parseBoth(id, string(b))
}

func (e *Engine) parseFromEmbed(id string) (*compiled, error) {
	path := "files/" + id + ".tmpl"
	b, err := fs.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read embedded template %q: %w", path, err)
	}
	return parseBoth(id, string(b))
}

func parseBoth(id, content string) (*compiled, error) {
	// text/template for subject and sms_text
	tText, err := texttmpl.New(id).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse text blocks (%s): %w", id, err)
	}
	// html/template for email_html
	tHTML, err := htmltmpl.New(id).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse html block (%s): %w", id, err)
	}
	return &compiled{text: tText, html: tHTML}, nil
}

func execText(t *texttmpl.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func execHTML(t *htmltmpl.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
