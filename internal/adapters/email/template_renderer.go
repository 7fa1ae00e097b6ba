package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"

	"speakerbooking/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// BookingRequestTemplate is the template sent to the bookings desk for a submitted request.
const BookingRequestTemplate = "booking_request"

var templateFuncs = map[string]any{
	"default": func(def, v string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	},
}

type executor interface {
	Execute(w io.Writer, data any) error
}

// message is the parsed subject, html and text parts of one template.
type message struct {
	subject, html, text executor
}

// templateRenderer implements domain.EmailTemplateRenderer over templates parsed once from
// the embedded templates folder. A template named n is made of n_subject.txt, n.html and n.txt.
type templateRenderer struct {
	messages map[string]message
}

// NewTemplateRenderer parses every embedded template. It panics on a malformed or incomplete
// template since those ship with the binary.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	r, err := newTemplateRenderer(templateFS)
	if err != nil {
		panic(err)
	}
	return r
}

func newTemplateRenderer(fsys fs.FS) (*templateRenderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &templateRenderer{messages: make(map[string]message, len(names))}
	for _, n := range names {
		name := strings.TrimSuffix(path.Base(n), ".html")
		var m message
		if m.subject, err = parseText(fsys, name+"_subject.txt"); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		if m.text, err = parseText(fsys, name+".txt"); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		raw, err := fs.ReadFile(fsys, n)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		if m.html, err = htmltemplate.New(name + ".html").Funcs(templateFuncs).Parse(string(raw)); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		r.messages[name] = m
	}
	return r, nil
}

func parseText(fsys fs.FS, file string) (*texttemplate.Template, error) {
	raw, err := fs.ReadFile(fsys, "templates/"+file)
	if err != nil {
		return nil, err
	}
	return texttemplate.New(file).Funcs(templateFuncs).Parse(string(raw))
}

// Render executes the named template (e.g. "booking_request") with data and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	m, ok := r.messages[templateName]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", templateName)
	}
	if subject, err = execute(m.subject, data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	if htmlBody, err = execute(m.html, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	if textBody, err = execute(m.text, data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func execute(t executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
