// report_test.go — Unit tests for report layout, determinism and storage.
package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestBodyLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"drops blank lines", "a\n\nb\n", []string{"a", "b"}},
		{"drops whitespace-only lines", "a\n   \n\t\nb", []string{"a", "b"}},
		{"keeps indentation", "  indented", []string{"  indented"}},
		{"normalizes unicode", "café\n日本", []string{"cafe?", "??"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bodyLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("bodyLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRenderPDF_Deterministic: identical inputs must give identical bytes.
func TestRenderPDF_Deterministic(t *testing.T) {
	input := "Our warehouse picking is too slow\n\nPickers walk too far."
	summary := "## Summary\n- Challenge: travel time\n- Goal: 2x throughput\n\nAction items: slotting review"

	first, err := RenderPDF(input, summary)
	if err != nil {
		t.Fatalf("RenderPDF() unexpected error: %v", err)
	}
	second, err := RenderPDF(input, summary)
	if err != nil {
		t.Fatalf("RenderPDF() unexpected error: %v", err)
	}

	if !bytes.HasPrefix(first, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF magic bytes")
	}
	if !bytes.Equal(first, second) {
		t.Error("RenderPDF() produced different bytes for identical inputs")
	}
}

func TestRenderPDF_Content(t *testing.T) {
	content, err := RenderPDF("Need: automation", "Propose robots")
	if err != nil {
		t.Fatalf("RenderPDF() unexpected error: %v", err)
	}

	text := plainText(t, content)
	for _, want := range []string{Title, InputHeading, "Need: automation", SummaryHeading, "Propose robots"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
	if strings.Index(text, InputHeading) > strings.Index(text, SummaryHeading) {
		t.Error("input section should come before the summary section")
	}
}

// TestRenderPDF_Paginates checks long content spills onto more pages.
func TestRenderPDF_Paginates(t *testing.T) {
	short, err := RenderPDF("one line", "one line")
	if err != nil {
		t.Fatalf("RenderPDF() unexpected error: %v", err)
	}
	if n := pageCount(t, short); n != 1 {
		t.Errorf("short report has %d pages, want 1", n)
	}

	var long strings.Builder
	for i := 0; i < 120; i++ {
		long.WriteString("This is a line of meeting notes that will need some room on the page.\n")
	}
	paged, err := RenderPDF(long.String(), strings.Repeat("word ", 2000))
	if err != nil {
		t.Fatalf("RenderPDF() unexpected error: %v", err)
	}
	if n := pageCount(t, paged); n < 5 {
		t.Errorf("long report has %d pages, want at least 5", n)
	}
}

func TestRender_WritesArtifact(t *testing.T) {
	store := newTestStore(t)
	r := NewRenderer(store)

	id := NewToken()
	artifact, err := r.Render("input", "summary", id)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if artifact.ID != id {
		t.Errorf("ID = %q, want %q", artifact.ID, id)
	}
	if artifact.Filename != "report_"+id+".pdf" {
		t.Errorf("Filename = %q", artifact.Filename)
	}
	if artifact.Path != filepath.Join(store.Dir(), artifact.Filename) {
		t.Errorf("Path = %q", artifact.Path)
	}

	onDisk, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	want, _ := RenderPDF("input", "summary")
	if !bytes.Equal(onDisk, want) {
		t.Error("file content differs from RenderPDF output")
	}
	if artifact.Size != int64(len(onDisk)) {
		t.Errorf("Size = %d, want %d", artifact.Size, len(onDisk))
	}
}

func TestRender_NeverOverwrites(t *testing.T) {
	store := newTestStore(t)
	r := NewRenderer(store)
	id := NewToken()

	first, err := r.Render("first", "first", id)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	before, _ := os.ReadFile(first.Path)

	if _, err := r.Render("second", "second", id); err == nil {
		t.Fatal("Render() with a reused identifier should fail")
	}

	after, _ := os.ReadFile(first.Path)
	if !bytes.Equal(before, after) {
		t.Error("existing report was modified")
	}
}

// TestNewToken_Unique: 10,000 sequential tokens must all differ.
func TestNewToken_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		tok := NewToken()
		if seen[tok] {
			t.Fatalf("duplicate token after %d generations: %s", i, tok)
		}
		seen[tok] = true
	}
}

func TestDownloadURL(t *testing.T) {
	url := DownloadURL(Filename(NewToken()))
	if !regexp.MustCompile(`^/reports/report_.+\.pdf$`).MatchString(url) {
		t.Errorf("DownloadURL = %q, does not match /reports/report_<token>.pdf", url)
	}
}

func TestStore_Resolve(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create("report_abc.pdf", []byte("%PDF-1.3")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := os.Mkdir(filepath.Join(store.Dir(), "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"existing report", "report_abc.pdf", false},
		{"missing report", "report_missing.pdf", true},
		{"directory", "subdir", true},
		{"parent traversal", "../report_abc.pdf", true},
		{"nested path", "subdir/report_abc.pdf", true},
		{"dot dot", "..", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := store.Resolve(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("Resolve(%q) error = %v, want ErrNotFound", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.filename, err)
			}
			if path != filepath.Join(store.Dir(), tt.filename) {
				t.Errorf("Resolve(%q) = %q", tt.filename, path)
			}
		})
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("report directory was not created: %v", err)
	}
}

// --- helpers ---

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return store
}

func openPDF(t *testing.T, content []byte) *pdf.Reader {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("rendered output is not a readable PDF: %v", err)
	}
	return r
}

func pageCount(t *testing.T, content []byte) int {
	t.Helper()
	return openPDF(t, content).NumPage()
}

func plainText(t *testing.T, content []byte) string {
	t.Helper()
	r := openPDF(t, content)
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		text, err := r.Page(i).GetPlainText(nil)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		sb.WriteString(text)
	}
	return sb.String()
}
