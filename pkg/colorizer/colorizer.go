// Package colorizer recolors SVG artifacts after they were written to disk.
//
// A structured edit of the element tree is attempted first. If the document
// does not parse or contains no path or rect elements, every fill attribute
// is replaced textually with the foreground color. If that fails too the file
// is left untouched.
package colorizer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/Badsnus/qrbatch/pkg/metrics"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"
	xmlHeader    = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

	// MaxPrecision disables the decimal rewrite.
	MaxPrecision = 10
)

// Outcome reports which stage produced the final artifact.
type Outcome string

const (
	OutcomeStructured    Outcome = "structured"
	OutcomeRegexFallback Outcome = "regex_fallback"
	OutcomeUnmodified    Outcome = "unmodified"
)

var (
	errNoElements = errors.New("no path or rect elements")

	fillPattern    = regexp.MustCompile(`fill="[^"]+"`)
	decimalPattern = regexp.MustCompile(`\b\d+\.\d+\b`)
)

// Colorizer applies one foreground/background pair to SVG files.
type Colorizer struct {
	fg        string
	bg        string
	precision int
	log       *zap.SugaredLogger
}

type attempt struct {
	outcome Outcome
	run     func(data []byte) ([]byte, error)
}

// New creates a Colorizer. A precision of MaxPrecision or more keeps numbers as rendered.
func New(fg, bg string, precision int, log *zap.SugaredLogger) *Colorizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Colorizer{fg: fg, bg: bg, precision: precision, log: log}
}

// Apply recolors the file at path in place. It never fails; the returned
// Outcome tells which stage succeeded.
func (c *Colorizer) Apply(path string) Outcome {
	outcome, err := c.apply(path)
	if err != nil {
		c.log.Errorw("colorize failed, artifact left unmodified", "path", path, "error", err)
	}
	metrics.Colorize.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (c *Colorizer) apply(path string) (Outcome, error) {
	info, statErr := os.Stat(path)
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return OutcomeUnmodified, readErr
	}

	out, outcome, err := c.Colorize(data)
	if err != nil {
		return OutcomeUnmodified, err
	}

	perm := os.FileMode(0o644)
	if statErr == nil {
		perm = info.Mode().Perm()
	}
	if err = os.WriteFile(path, out, perm); err != nil {
		return OutcomeUnmodified, err
	}
	return outcome, nil
}

// Colorize runs the attempts in order and returns the first success.
func (c *Colorizer) Colorize(data []byte) ([]byte, Outcome, error) {
	attempts := []attempt{
		{outcome: OutcomeStructured, run: c.structured},
		{outcome: OutcomeRegexFallback, run: c.regex},
	}

	var errs []error
	for _, a := range attempts {
		out, err := a.run(data)
		if err == nil {
			return out, a.outcome, nil
		}
		c.log.Debugw("colorize attempt failed", "stage", a.outcome, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", a.outcome, err))
	}
	return nil, OutcomeUnmodified, errors.Join(errs...)
}

func (c *Colorizer) structured(data []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty document")
	}

	paths := lookup(root, "path")
	rects := lookup(root, "rect")
	if len(paths) == 0 && len(rects) == 0 {
		return nil, errNoElements
	}

	for _, p := range paths {
		p.CreateAttr("fill", c.fg)
	}
	for i, r := range rects {
		if i == 0 {
			r.CreateAttr("fill", c.bg)
			continue
		}
		r.CreateAttr("fill", c.fg)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	if c.precision < MaxPrecision {
		out = c.roundDecimals(out)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(out), []byte("<?xml")) {
		out = append([]byte(xmlHeader), out...)
	}
	return out, nil
}

func (c *Colorizer) regex(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty artifact")
	}
	return fillPattern.ReplaceAll(data, []byte(`fill="`+c.fg+`"`)), nil
}

func (c *Colorizer) roundDecimals(data []byte) []byte {
	return decimalPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		v, err := strconv.ParseFloat(string(m), 64)
		if err != nil {
			return m
		}
		return []byte(strconv.FormatFloat(v, 'f', c.precision, 64))
	})
}

// lookup finds elements in the SVG namespace, then elements without a namespace.
func lookup(root *etree.Element, tag string) []*etree.Element {
	if found := collect(root, tag, svgNamespace); len(found) > 0 {
		return found
	}
	return collect(root, tag, "")
}

func collect(e *etree.Element, tag, namespace string) []*etree.Element {
	var found []*etree.Element
	if e.Tag == tag && e.NamespaceURI() == namespace {
		found = append(found, e)
	}
	for _, child := range e.ChildElements() {
		found = append(found, collect(child, tag, namespace)...)
	}
	return found
}
