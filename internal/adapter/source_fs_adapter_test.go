package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	m "routegen.dev/pkg/routegen/internal/model"
)

func TestLocalSourceFSAdapter_ReadDir(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "main.rs"), "fn main() {}\n")
	mustMkdir(t, filepath.Join(root, "handler"))

	entries, err := adapter.ReadDir(context.Background(), m.Path(root))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	if !containsPath(names, "main.rs") || !containsPath(names, "handler") {
		t.Fatalf("ReadDir() = %v, want main.rs and handler", names)
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := adapter.ReadDir(ctx, m.Path(root)); err == nil {
			t.Fatalf("ReadDir() expected error for cancelled context")
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "nation.rs")
	content := "#[get(\"/\")]\n" + "pub async fn hello() {}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "lib.rs")
	content := []byte("pub mod handler;\n")
	writeTestBytes(t, path, content)

	expected := fmt.Sprintf("%x", sha256.Sum256(content))

	hash, err := adapter.HashFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if hash != expected {
		t.Fatalf("HashFile() = %s, want %s", hash, expected)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.rs")
	writeTestFile(t, path, "fn main() {}\n")

	info, err := adapter.FileInfo(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(context.Background(), m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_Glob(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "crates"))
	mustMkdir(t, filepath.Join(root, "crates", "b_api"))
	mustMkdir(t, filepath.Join(root, "crates", "a_api"))
	mustMkdir(t, filepath.Join(root, "tools"))

	got, err := adapter.Glob(context.Background(), m.Path(root), "crates/*")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	want := []string{"crates/a_api", "crates/b_api"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("Glob() = %v, want %v", got, want)
	}
}

func TestLocalSourceFSAdapter_WriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	target := filepath.Join(root, "out", "nested", "routes.rs")

	if err := adapter.WriteFile(context.Background(), m.Path(target), []byte("pub fn configure() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(got) != "pub fn configure() {}\n" {
		t.Fatalf("WriteFile() wrote %q", string(got))
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/src/handler/nation.rs")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("src", "handler", "nation.rs") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("src", "handler", "nation.rs"))
	}

	joined := adapter.JoinPath("/tmp", "project", "src", "lib.rs")
	if string(joined) != filepath.Join("/tmp", "project", "src", "lib.rs") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "src", "lib.rs"))
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
