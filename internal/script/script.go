// Package script runs user-written theme scripts in a sandboxed Go
// interpreter.
//
// A script is either a list of Go statements, wrapped into a Run function, or
// a complete "package main" program defining func Run() error. Scripts reach
// the application only through the heartline package (SetTheme, Theme,
// Themes) and may import nothing outside a small stdlib allow-list.
package script

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/henri123lemoine/heartline/internal/debug"
)

var (
	// ErrEmpty is returned for a blank script.
	ErrEmpty = errors.New("empty script")

	// ErrDisabled is returned when scripting is turned off in config.
	ErrDisabled = errors.New("theme scripts are disabled")

	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("script timed out")
)

// hostPackage is the import path scripts use to reach the application.
const hostPackage = "heartline"

// Host is the application surface exposed to scripts.
type Host interface {
	SetTheme(id string) error
	Theme() string
	Themes() []string
}

// Runner executes scripts.
type Runner struct {
	allowed map[string]bool
	timeout time.Duration
	enabled bool
}

// NewRunner returns a runner. A zero timeout means no deadline beyond the
// caller's context.
func NewRunner(enabled bool, timeout time.Duration) *Runner {
	return &Runner{
		enabled: enabled,
		timeout: timeout,
		allowed: map[string]bool{
			hostPackage: true,

			"strings": true,
			"strconv": true,
			"fmt":     true,
			"math":    true,
			"time":    true,
			"sort":    true,
			"errors":  true,
			"unicode": true,

			// Not allowed: os, os/exec, net, net/http, syscall, unsafe,
			// io/ioutil, plugin, reflect, runtime
		},
	}
}

// Run evaluates code against host.
func (r *Runner) Run(ctx context.Context, code string, host Host) error {
	if !r.enabled {
		return ErrDisabled
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmpty
	}
	defer debug.Timed("script run")()

	src := wrap(code)
	if err := r.validateImports(src); err != nil {
		return err
	}

	i, err := r.newInterpreter(host)
	if err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("script panicked: %v", p)
			}
		}()
		done <- evalRun(ctx, i, src)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The interpreter goroutine cannot be stopped; it is abandoned.
		debug.Log("script: abandoned after %v", ctx.Err())
		return ErrTimeout
	}
}

func (r *Runner) newInterpreter(host Host) (i *interp.Interpreter, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script setup panicked: %v", p)
		}
	}()
	i = interp.New(interp.Options{})
	if err := i.Use(r.symbols()); err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	if err := i.Use(hostSymbols(host)); err != nil {
		return nil, fmt.Errorf("load host: %w", err)
	}
	return i, nil
}

func evalRun(ctx context.Context, i *interp.Interpreter, src string) error {
	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return err
	}
	v, err := i.EvalWithContext(ctx, "main.Run")
	if err != nil {
		return fmt.Errorf("script must define func Run() error: %w", err)
	}
	switch run := v.Interface().(type) {
	case func() error:
		return run()
	case func():
		run()
		return nil
	default:
		return errors.New("script must define func Run() error")
	}
}

// wrap turns bare statements into a program.
func wrap(code string) string {
	if strings.HasPrefix(code, "package ") {
		return code
	}
	return fmt.Sprintf(`package main

import %q

var _ = %s.Theme

func Run() error {
%s
	return nil
}
`, hostPackage, hostPackage, code)
}

func (r *Runner) validateImports(src string) error {
	f, err := parser.ParseFile(token.NewFileSet(), "script.go", src, parser.ImportsOnly)
	if err != nil {
		return err
	}
	var forbidden []string
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !r.allowed[path] {
			forbidden = append(forbidden, imp.Path.Value)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s (allowed: %s)",
			strings.Join(forbidden, ", "), strings.Join(r.allowedList(), ", "))
	}
	return nil
}

func (r *Runner) allowedList() []string {
	var pkgs []string
	for pkg := range r.allowed {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// symbols returns the stdlib exports of allowed packages only, so a package
// that slips past validation still cannot be resolved.
func (r *Runner) symbols() interp.Exports {
	out := interp.Exports{}
	for key, syms := range stdlib.Symbols {
		// Keys look like "strings/strings" (import path / package name).
		// The "." entry holds yaegi's own helpers and has no path.
		slash := strings.LastIndex(key, "/")
		if slash < 0 {
			continue
		}
		if r.allowed[key[:slash]] {
			out[key] = syms
		}
	}
	return out
}

func hostSymbols(h Host) interp.Exports {
	return interp.Exports{
		hostPackage + "/" + hostPackage: {
			"SetTheme": reflect.ValueOf(h.SetTheme),
			"Theme":    reflect.ValueOf(h.Theme),
			"Themes":   reflect.ValueOf(h.Themes),
		},
	}
}
