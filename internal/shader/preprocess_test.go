// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name   string
		source string
		defs   []string
		want   string
	}{
		{
			name:   "no directives",
			source: "a\nb",
			want:   "a\nb",
		},
		{
			name:   "ifdef taken",
			source: "#ifdef X\na\n#endif\nb",
			defs:   []string{"X"},
			want:   "\na\n\nb",
		},
		{
			name:   "ifdef not taken",
			source: "#ifdef X\na\n#endif\nb",
			want:   "\n\n\nb",
		},
		{
			name:   "ifndef",
			source: "#ifndef X\na\n#else\nb\n#endif",
			want:   "\na\n\n\n",
		},
		{
			name:   "else branch",
			source: "#ifdef X\na\n#else\nb\n#endif",
			want:   "\n\n\nb\n",
		},
		{
			name:   "nested inside inactive",
			source: "#ifdef X\n#ifdef Y\na\n#else\nb\n#endif\n#endif\nc",
			defs:   []string{"Y"},
			want:   "\n\n\n\n\n\n\nc",
		},
		{
			name:   "nested both active",
			source: "#ifdef X\n#ifdef Y\na\n#endif\n#endif",
			defs:   []string{"X", "Y"},
			want:   "\n\na\n\n",
		},
		{
			name:   "indented directives",
			source: "  #ifdef X\n  a\n  #endif",
			defs:   []string{"X"},
			want:   "\n  a\n",
		},
		{
			name:   "unknown hash line kept",
			source: "#define X\na",
			want:   "#define X\na",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Preprocess(tt.source, tt.defs)
			if err != nil {
				t.Fatalf("Preprocess() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Preprocess() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreprocessErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"stray endif", "a\n#endif", ErrUnbalancedDirective},
		{"stray else", "#else", ErrUnbalancedDirective},
		{"double else", "#ifdef X\n#else\n#else\n#endif", ErrUnbalancedDirective},
		{"unclosed", "#ifdef X\na", ErrUnbalancedDirective},
		{"missing name", "#ifdef\n#endif", ErrMissingDefName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Preprocess(tt.source, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Preprocess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreprocessKeepsLineCount(t *testing.T) {
	src, _ := Source(FXAA)
	out, err := Preprocess(src, []string{"EDGE_THRESH_HIGH", "EDGE_THRESH_MIN_HIGH"})
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	if got, want := strings.Count(out, "\n"), strings.Count(src, "\n"); got != want {
		t.Errorf("line count = %d, want %d", got, want)
	}
}
