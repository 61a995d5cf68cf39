package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		rules        string
		args         func(conf string) []string
		expectedExit int
		check        func(t *testing.T, dir string)
	}{
		{
			name: "successful build",
			rules: `
version: 1
rules:
  - target: all
    recipe: 'echo built > out.txt'
`,
			args:         func(conf string) []string { return []string{"mk", "run", "--file", conf} },
			expectedExit: 0,
			check: func(t *testing.T, dir string) {
				data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
				require.NoError(t, err)
				assert.Equal(t, "built\n", string(data))
			},
		},
		{
			name: "failing recipe",
			rules: `
version: 1
rules:
  - target: all
    recipe: 'exit 1'
`,
			args:         func(conf string) []string { return []string{"mk", "run", "--file", conf} },
			expectedExit: 1,
		},
		{
			name: "unresolvable target",
			rules: `
version: 1
rules:
  - target: all
    prereqs: [missing]
    recipe: 'echo nope'
`,
			args:         func(conf string) []string { return []string{"mk", "run", "--file", conf} },
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			conf := filepath.Join(dir, "mk.yaml")
			require.NoError(t, os.WriteFile(conf, []byte(tt.rules), 0o600))

			os.Args = tt.args(conf)
			assert.Equal(t, tt.expectedExit, run())

			if tt.check != nil {
				tt.check(t, dir)
			}
		})
	}
}
