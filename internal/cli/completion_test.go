package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCompletion(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeCompletion(root, shell, &buf); err != nil {
				t.Fatalf("writeCompletion(%s) error: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	if err := writeCompletion(root, "tcsh", &bytes.Buffer{}); err == nil {
		t.Error("writeCompletion(tcsh) should fail")
	}
}
