package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/voltcraft/certify/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name    string
		message string
		want    models.IntentFlags
	}{
		{
			name:    "design question",
			message: "What size cable for a shower circuit?",
			want:    models.IntentFlags{Design: true},
		},
		{
			name:    "cost question",
			message: "How much does a consumer unit cost from Screwfix?",
			want:    models.IntentFlags{Cost: true},
		},
		{
			name:    "empty message",
			message: "",
			want:    models.IntentFlags{},
		},
		{
			name:    "no matching keywords",
			message: "Hello there, can you help me?",
			want:    models.IntentFlags{},
		},
		{
			name:    "multiple intents",
			message: "Calculate the cable size and give me a price estimate",
			want:    models.IntentFlags{Design: true, Cost: true},
		},
		{
			name:    "commissioning",
			message: "What Zs reading should I expect on this ring?",
			want:    models.IntentFlags{Commissioning: true},
		},
		{
			name:    "case insensitive",
			message: "INSTALL A NEW SOCKET",
			want:    models.IntentFlags{Installation: true},
		},
		{
			// Substring matching is deliberate: "test" inside "latest"
			// still triggers commissioning.
			name:    "substring false positive",
			message: "what is the latest news",
			want:    models.IntentFlags{Commissioning: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.message); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.message, got, tt.want)
			}
		})
	}
}

func TestLoadKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := []byte("design:\n  - busbar\ncost:\n  - trade price\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords failed: %v", err)
	}
	if len(kw.Design) != 1 || kw.Design[0] != "busbar" {
		t.Errorf("Design = %v, want [busbar]", kw.Design)
	}
	// Unlisted areas fall back to defaults.
	if len(kw.Installation) == 0 || len(kw.Commissioning) == 0 {
		t.Error("Expected defaults for omitted lists")
	}

	c := NewClassifier(kw)
	if got := c.Classify("where can I get a busbar"); !got.Design {
		t.Errorf("Expected custom keyword to classify as design, got %+v", got)
	}
	if got := c.Classify("what size cable"); got.Design {
		t.Errorf("Expected default design list to be replaced, got %+v", got)
	}
}

func TestLoadKeywords_MissingFile(t *testing.T) {
	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestClassifier_SetKeywords(t *testing.T) {
	c := NewClassifier(nil)
	c.SetKeywords(&Keywords{Commissioning: []string{"megger"}})
	if got := c.Classify("borrow the megger"); !got.Commissioning {
		t.Errorf("Expected swapped keywords to apply, got %+v", got)
	}
	c.SetKeywords(nil) // no-op
	if got := c.Classify("borrow the megger"); !got.Commissioning {
		t.Error("Expected nil swap to be ignored")
	}
}
