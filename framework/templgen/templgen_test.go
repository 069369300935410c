package templgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %q: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}

const helloSource = "package sample\n\ntempl Hello(name string) { <p>{ name }</p> }\n"

func TestRunWritesThenReportsCurrent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, filepath.Join(root, "hello.templ"), helloSource)

	result, err := Run(Config{Paths: []string{root}, BasePath: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	target := filepath.Join(root, "hello_templ.go")
	if len(result.Changed) != 1 || result.Changed[0] != target {
		t.Fatalf("expected %q written, got %v", target, result.Changed)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected generated file: %v", err)
	}

	result, err = Run(Config{Paths: []string{root}, BasePath: root, Check: true})
	if err != nil {
		t.Fatalf("check after generate: %v", err)
	}
	if len(result.Changed) != 0 {
		t.Fatalf("expected no stale files, got %v", result.Changed)
	}
}

func TestCheckReportsStaleWithoutWriting(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, filepath.Join(root, "hello.templ"), helloSource)
	target := filepath.Join(root, "hello_templ.go")
	writeSource(t, target, "package sample\n")

	_, err := Run(Config{Paths: []string{root}, BasePath: root, Check: true})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(content) != "package sample\n" {
		t.Fatalf("check mode rewrote %q", target)
	}
}

func TestRunSkipsUnderscoreDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, filepath.Join(root, "_reference", "hello.templ"), helloSource)

	if _, err := Run(Config{Paths: []string{root}, BasePath: root}); err == nil {
		t.Fatal("expected no templ files error")
	}
}
