package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/fla/core/deck"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
	"github.com/FocuswithJustin/fla/internal/fileutil"
)

const notes = `// verbs
run { v { to move fast } on foot }
a {{cat}} { n { small feline } }
`

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func captureStdout(t *testing.T, f func() error) string {
	t.Helper()
	var buf bytes.Buffer
	old := fileutil.Stdout
	fileutil.Stdout = &buf
	defer func() { fileutil.Stdout = old }()
	if err := f(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return buf.String()
}

// Tests for BuildCmd

func TestBuildCmd_Run(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)

	cmd := &BuildCmd{IO: IOFlags{Input: input}}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "- run #card #start_with_r\n" +
		"    - ==v.== to move fast\n" +
		"    - on foot\n" +
		"- a {{cloze cat}}  #card #start_with_a\n" +
		"    - ==n.== small feline\n"
	if got := readFile(t, filepath.Join(dir, "notes.fla.md")); got != want {
		t.Errorf("build output =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildCmd_ExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)
	output := filepath.Join(dir, "cards.md")

	cmd := &BuildCmd{IO: IOFlags{Input: input, Output: output}}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.fla.md")); !os.IsNotExist(err) {
		t.Error("default output written despite --output")
	}
	if !strings.HasPrefix(readFile(t, output), "- run #card") {
		t.Errorf("unexpected output:\n%s", readFile(t, output))
	}
}

func TestBuildCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", "k { v }")

	cmd := &BuildCmd{IO: IOFlags{Input: input, Output: "-"}}
	got := captureStdout(t, cmd.Run)
	if got != "- k #card #start_with_k\n    - v\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestBuildCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"syntax error", "k { v", ferrors.ErrSyntax},
		{"unknown speech", "k { noun { v } }", ferrors.ErrSyntax},
		{"nul byte", "k { \x00 }", ferrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := createTestFile(t, dir, "bad.fla", tt.content)
			err := (&BuildCmd{IO: IOFlags{Input: input}}).Run()
			if !errors.Is(err, tt.want) {
				t.Errorf("Run error = %v, want %v", err, tt.want)
			}
		})
	}

	err := (&BuildCmd{IO: IOFlags{Input: filepath.Join(dir, "missing.fla")}}).Run()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing input error = %v, want ErrNotExist", err)
	}
}

// Tests for DebugCmd

func TestDebugCmd_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)

	if err := (&DebugCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatalf("debug failed: %v", err)
	}
	dump := filepath.Join(dir, "notes.fla.debug")
	if !strings.Contains(readFile(t, dump), `<node speech="v">to move fast</node>`) {
		t.Errorf("dump missing node:\n%s", readFile(t, dump))
	}

	// Building from the dump matches building from the source.
	fromSource := filepath.Join(dir, "source.md")
	fromDump := filepath.Join(dir, "dump.md")
	if err := (&BuildCmd{IO: IOFlags{Input: input, Output: fromSource}}).Run(); err != nil {
		t.Fatal(err)
	}
	if err := (&BuildCmd{IO: IOFlags{Input: dump, Output: fromDump}}).Run(); err != nil {
		t.Fatal(err)
	}
	if readFile(t, fromSource) != readFile(t, fromDump) {
		t.Errorf("build from dump differs:\n%s\nvs\n%s", readFile(t, fromSource), readFile(t, fromDump))
	}
}

// Tests for FmtCmd

func TestFmtCmd_InPlace(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)

	if err := (&FmtCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatalf("fmt failed: %v", err)
	}

	want := "a {{cat}} {\n" +
		"    n {\n" +
		"        small feline\n" +
		"    }\n" +
		"}\n\n" +
		"run {\n" +
		"    v {\n" +
		"        to move fast\n" +
		"    }\n" +
		"    on foot\n" +
		"}\n\n"
	if got := readFile(t, input); got != want {
		t.Errorf("formatted =\n%q\nwant\n%q", got, want)
	}

	info, err := os.Stat(input)
	if err != nil {
		t.Fatal(err)
	}
	before := info.ModTime()

	// Second run leaves the canonical file untouched.
	if err := (&FmtCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatalf("second fmt failed: %v", err)
	}
	info, err = os.Stat(input)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(before) {
		t.Error("canonical file was rewritten")
	}
}

func TestFmtCmd_Check(t *testing.T) {
	dir := t.TempDir()
	messy := createTestFile(t, dir, "messy.fla", "b { x } a { y }")
	clean := createTestFile(t, dir, "clean.fla", "a {\n    y\n}\n\nb {\n    x\n}\n\n")

	if err := (&FmtCmd{IO: IOFlags{Input: messy}, Check: true}).Run(); err == nil {
		t.Error("expected --check to fail on unformatted input")
	}
	if readFile(t, messy) != "b { x } a { y }" {
		t.Error("--check modified its input")
	}
	if err := (&FmtCmd{IO: IOFlags{Input: clean}, Check: true}).Run(); err != nil {
		t.Errorf("--check on canonical input failed: %v", err)
	}
}

func TestFmtCmd_Compressed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.fla.xz")
	if err := fileutil.WriteOutput(input, []byte("b { x } a { y }")); err != nil {
		t.Fatal(err)
	}

	if err := (&FmtCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	got, err := fileutil.ReadInput(input)
	if err != nil {
		t.Fatalf("compressed output unreadable: %v", err)
	}
	if string(got) != "a {\n    y\n}\n\nb {\n    x\n}\n\n" {
		t.Errorf("formatted = %q", got)
	}
}

func TestFmtCmd_DebugInputNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)
	if err := (&DebugCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatal(err)
	}
	dump := filepath.Join(dir, "notes.fla.debug")

	err := (&FmtCmd{IO: IOFlags{Input: dump}}).Run()
	if !errors.Is(err, ferrors.ErrInvalidInput) {
		t.Errorf("fmt of dump error = %v, want ErrInvalidInput", err)
	}

	err = (&FmtCmd{IO: IOFlags{Input: dump}, Check: true}).Run()
	if !errors.Is(err, ferrors.ErrUnsupported) {
		t.Errorf("fmt --check of dump error = %v, want ErrUnsupported", err)
	}

	out := filepath.Join(dir, "restored.fla")
	if err := (&FmtCmd{IO: IOFlags{Input: dump, Output: out}}).Run(); err != nil {
		t.Fatalf("fmt of dump with --output failed: %v", err)
	}
	if !strings.HasPrefix(readFile(t, out), "a {{cat}} {\n") {
		t.Errorf("restored source:\n%s", readFile(t, out))
	}
}

// Tests for RenderCmd

func TestRenderCmd_Run(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)

	tests := []struct {
		mode   string
		output string
		want   string
	}{
		{"build", "notes.fla.md", "- run #card #start_with_r\n"},
		{"DEBUG", "notes.fla.debug", `<node speech="n">small feline</node>`},
		{"preview", "notes.fla.html", "<li>"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if err := (&RenderCmd{IO: IOFlags{Input: input}, Mode: tt.mode}).Run(); err != nil {
				t.Fatalf("render --mode %s failed: %v", tt.mode, err)
			}
			if got := readFile(t, filepath.Join(dir, tt.output)); !strings.Contains(got, tt.want) {
				t.Errorf("%s output missing %q:\n%s", tt.output, tt.want, got)
			}
		})
	}
}

func TestRenderCmd_FormatAndUnknownMode(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", "b { x } a { y }")

	if err := (&RenderCmd{IO: IOFlags{Input: input}, Mode: "fmt"}).Run(); err != nil {
		t.Fatalf("render --mode fmt failed: %v", err)
	}
	if got := readFile(t, input); got != "a {\n    y\n}\n\nb {\n    x\n}\n\n" {
		t.Errorf("formatted = %q", got)
	}

	err := (&RenderCmd{IO: IOFlags{Input: input}, Mode: "pdf"}).Run()
	if !errors.Is(err, ferrors.ErrUnsupported) {
		t.Errorf("render --mode pdf error = %v, want ErrUnsupported", err)
	}
}

// Tests for PreviewCmd

func TestPreviewCmd_Run(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "notes.fla", notes)

	if err := (&PreviewCmd{IO: IOFlags{Input: input}}).Run(); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	html := readFile(t, filepath.Join(dir, "notes.fla.html"))
	if !strings.Contains(html, "<li>") || !strings.Contains(html, "small feline") {
		t.Errorf("unexpected preview:\n%s", html)
	}
}

// Tests for DeckCmd

func TestDeckCmd_Run(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "verbs.fla", notes)

	if err := (&DeckCmd{Input: input}).Run(); err != nil {
		t.Fatalf("deck failed: %v", err)
	}

	name, cards, err := deck.Read(context.Background(), filepath.Join(dir, "verbs.fla.db"))
	if err != nil {
		t.Fatalf("deck.Read failed: %v", err)
	}
	if name != "verbs" {
		t.Errorf("deck name = %q, want verbs", name)
	}
	if len(cards) != 2 || cards[0].Front != "run" || cards[1].StartWith != "a" {
		t.Errorf("cards = %+v", cards)
	}
}

func TestDeckCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "verbs.fla", notes)

	if err := (&DeckCmd{Input: input, Output: "-"}).Run(); !errors.Is(err, ferrors.ErrUnsupported) {
		t.Errorf("deck to stdout error = %v, want ErrUnsupported", err)
	}
	if err := (&DeckCmd{Input: "-"}).Run(); !errors.Is(err, ferrors.ErrInvalidInput) {
		t.Errorf("deck from stdin error = %v, want ErrInvalidInput", err)
	}
}

// Tests for GrammarCmd and VersionCmd

func TestGrammarCmd_Run(t *testing.T) {
	got := captureStdout(t, (&GrammarCmd{}).Run)
	if !strings.Contains(got, "Document") {
		t.Errorf("grammar output:\n%s", got)
	}
}

func TestVersionCmd_Run(t *testing.T) {
	got := captureStdout(t, (&VersionCmd{}).Run)
	if !strings.HasPrefix(got, "fla version "+version) || !strings.Contains(got, "sqlite") {
		t.Errorf("version output = %q", got)
	}
}

// Tests for helpers

func TestIsDebugInput(t *testing.T) {
	tests := map[string]bool{
		"notes.fla.debug":    true,
		"notes.fla.DEBUG":    true,
		"notes.fla.debug.xz": true,
		"notes.fla":          false,
		"notes.fla.xz":       false,
		"-":                  false,
	}
	for path, want := range tests {
		if got := isDebugInput(path); got != want {
			t.Errorf("isDebugInput(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDeckName(t *testing.T) {
	tests := map[string]string{
		"verbs.fla":                     "verbs",
		filepath.Join("a.b", "x.fla.xz"): "x",
		".hidden":                       ".hidden",
		"plain":                         "plain",
	}
	for input, want := range tests {
		if got := deckName(input); got != want {
			t.Errorf("deckName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestInitLogging(t *testing.T) {
	defer initLogging("warn", "text")
	if err := initLogging("debug", "json"); err != nil {
		t.Errorf("initLogging failed: %v", err)
	}
	if err := initLogging("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := initLogging("info", "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
