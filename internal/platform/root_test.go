package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// Layout:
	//   repo/ (schema.json)
	//     bots/
	//       my/
	//   empty/

	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	botsDir := filepath.Join(repoDir, "bots")
	nestedDir := filepath.Join(botsDir, "my")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, "schema.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory named like the registry is not a registry.
	if err := os.Mkdir(filepath.Join(emptyDir, "schema.json"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		startPath  string
		schemaFile string
		wantRoot   string
		wantErr    bool
	}{
		{name: "Start at Root", startPath: repoDir, wantRoot: repoDir},
		{name: "Start in Subdir", startPath: botsDir, wantRoot: repoDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: repoDir},
		{name: "Explicit Schema Name", startPath: nestedDir, schemaFile: "schema.json", wantRoot: repoDir},
		{name: "Other Schema Name", startPath: nestedDir, schemaFile: "bots.json", wantErr: true},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath, tt.schemaFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
