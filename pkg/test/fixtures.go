package test

import (
	"path"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const (
	KeyAlice = "YWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWE="
	KeyBob   = "YmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmJiYmI="
	KeyCarol = "Y2NjY2NjY2NjY2NjY2NjY2NjY2NjY2NjY2NjY2NjY2M="

	// SelfRow is the interface line `wg show <interface> dump` prints first.
	SelfRow = "(hidden)\tKZ0aKNHGZfDPaFUgzMtrtdcAdyROxP/Afa7GOSDvO1c=\t51820\toff"
)

// KeyDir creates an in-memory filesystem with dir populated by the given files (name -> content).
func KeyDir(t *testing.T, dir string, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, path.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// DumpLine joins the fields the way `wg show dump` separates them.
func DumpLine(fields ...string) string {
	return strings.Join(fields, "\t")
}

// Dump builds a complete dump with the self row followed by the given peer lines.
func Dump(peerLines ...string) string {
	return strings.Join(append([]string{SelfRow}, peerLines...), "\n") + "\n"
}
