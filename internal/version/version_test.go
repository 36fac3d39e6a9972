package version

import (
	"strings"
	"testing"
)

func TestVersionHasSemverShape(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must not be empty")
	}
	if got := strings.Count(Version, "."); got < 2 {
		t.Fatalf("Version %q: want at least 2 dots, got %d", Version, got)
	}
}

func TestPlainHasNoEscapes(t *testing.T) {
	if got := Plain(); strings.ContainsRune(got, '\x1b') {
		t.Fatalf("Plain() = %q: contains terminal escapes", got)
	}
	if got := strings.Count(Plain(), "."); got != 2 {
		t.Fatalf("Plain() %q: want 2 dots, got %d", Plain(), got)
	}
}
