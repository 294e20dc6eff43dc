// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"strings"
)

// Preprocessor errors.
var (
	// ErrUnknownShader is returned for a handle with no embedded source.
	ErrUnknownShader = errors.New("shader: unknown shader handle")

	// ErrUnbalancedDirective is returned for #else/#endif without #ifdef,
	// or an #ifdef left open at end of input.
	ErrUnbalancedDirective = errors.New("shader: unbalanced preprocessor directive")

	// ErrMissingDefName is returned for #ifdef/#ifndef without a name.
	ErrMissingDefName = errors.New("shader: directive requires a def name")
)

// conditional is one open #ifdef/#ifndef block.
type conditional struct {
	parentActive bool
	taken        bool
	sawElse      bool
	line         int
}

// Preprocess evaluates #ifdef, #ifndef, #else and #endif against defs.
//
// Lines excluded by a directive, and the directive lines themselves, are
// replaced by empty lines so that compiler diagnostics keep their line
// numbers. Directives may be nested.
func Preprocess(source string, defs []string) (string, error) {
	defined := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		defined[d] = struct{}{}
	}

	lines := strings.Split(source, "\n")
	var stack []conditional
	active := true

	var b strings.Builder
	b.Grow(len(source))

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}

		directive, arg, ok := parseDirective(line)
		if !ok {
			if active {
				b.WriteString(line)
			}
			continue
		}

		switch directive {
		case "#ifdef", "#ifndef":
			if arg == "" {
				return "", fmt.Errorf("%w: %s at line %d", ErrMissingDefName, directive, i+1)
			}
			_, has := defined[arg]
			cond := has
			if directive == "#ifndef" {
				cond = !has
			}
			stack = append(stack, conditional{parentActive: active, taken: cond, line: i + 1})
			active = active && cond
		case "#else":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: #else at line %d", ErrUnbalancedDirective, i+1)
			}
			top := &stack[len(stack)-1]
			if top.sawElse {
				return "", fmt.Errorf("%w: second #else at line %d", ErrUnbalancedDirective, i+1)
			}
			top.sawElse = true
			active = top.parentActive && !top.taken
		case "#endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: #endif at line %d", ErrUnbalancedDirective, i+1)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return "", fmt.Errorf("%w: block opened at line %d is never closed",
			ErrUnbalancedDirective, stack[len(stack)-1].line)
	}
	return b.String(), nil
}

// parseDirective recognizes a preprocessor line. Leading whitespace is allowed.
func parseDirective(line string) (directive, arg string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "#ifdef", "#ifndef":
		if len(fields) > 1 {
			arg = fields[1]
		}
		return fields[0], arg, true
	case "#else", "#endif":
		return fields[0], "", true
	}
	return "", "", false
}
