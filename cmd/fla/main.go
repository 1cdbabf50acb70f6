// Command fla compiles fla note files into flashcard Markdown, canonical
// source, structural dumps, HTML previews and SQLite decks.
package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/fla/core/ast"
	"github.com/FocuswithJustin/fla/core/cas"
	"github.com/FocuswithJustin/fla/core/deck"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
	"github.com/FocuswithJustin/fla/core/fla"
	"github.com/FocuswithJustin/fla/core/render"
	"github.com/FocuswithJustin/fla/core/sqlite"
	"github.com/FocuswithJustin/fla/core/syntax"
	"github.com/FocuswithJustin/fla/internal/fileutil"
	"github.com/FocuswithJustin/fla/internal/logging"
	"github.com/FocuswithJustin/fla/internal/validation"
)

const version = "0.2.0"

// CLI defines the command-line interface for fla.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" env:"FLA_LOG_LEVEL" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" env:"FLA_LOG_FORMAT" enum:"text,json"`

	Build   BuildCmd   `cmd:"" help:"Compile notes to flashcard Markdown (.fla.md)"`
	Debug   DebugCmd   `cmd:"" help:"Dump the parsed tree as XML (.fla.debug)"`
	Fmt     FmtCmd     `cmd:"" help:"Rewrite notes in canonical sorted form"`
	Preview PreviewCmd `cmd:"" help:"Render flashcards as HTML (.fla.html)"`
	Deck    DeckCmd    `cmd:"" help:"Export flashcards to a SQLite deck (.fla.db)"`
	Render  RenderCmd  `cmd:"" help:"Render with the mode named by --mode (or the config file)"`
	Grammar GrammarCmd `cmd:"" help:"Print the source grammar"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// IOFlags are the input and output shared by the render commands.
type IOFlags struct {
	Input  string `arg:"" help:"Source file (.fla, .fla.xz, .fla.debug, or - for stdin)"`
	Output string `name:"output" short:"o" help:"Output path (- for stdout; .xz compresses)"`
}

// outputPath resolves the output for a mode, falling back to the default
// name next to the input.
func (f IOFlags) outputPath(ext string) string {
	switch {
	case f.Output != "":
		return f.Output
	case f.Input == fileutil.Stdio:
		return fileutil.Stdio
	default:
		return fileutil.OutputPath(f.Input, ext)
	}
}

// BuildCmd writes flashcard Markdown.
type BuildCmd struct {
	IO IOFlags `embed:""`
}

func (c *BuildCmd) Run() error {
	return renderFile(context.Background(), fla.ModeBuild, c.IO)
}

// DebugCmd writes the XML dump of the tree.
type DebugCmd struct {
	IO IOFlags `embed:""`
}

func (c *DebugCmd) Run() error {
	return renderFile(context.Background(), fla.ModeDebug, c.IO)
}

// PreviewCmd writes an HTML preview.
type PreviewCmd struct {
	IO IOFlags `embed:""`
}

func (c *PreviewCmd) Run() error {
	return renderFile(context.Background(), fla.ModePreview, c.IO)
}

// RenderCmd runs the renderer named by Mode, so the mode can come from a
// config file.
type RenderCmd struct {
	IO   IOFlags `embed:""`
	Mode string  `help:"Render mode (build, debug, fmt, preview)" default:"build"`
}

func (c *RenderCmd) Run() error {
	mode, err := fla.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if mode == fla.ModeFormat {
		return (&FmtCmd{IO: c.IO}).Run()
	}
	return renderFile(context.Background(), mode, c.IO)
}

// FmtCmd rewrites a file in canonical form.
type FmtCmd struct {
	IO    IOFlags `embed:""`
	Check bool    `help:"Write nothing; fail if the input is not already canonical"`
}

func (c *FmtCmd) Run() error {
	ctx := logging.WithFile(context.Background(), c.IO.Input)

	if isDebugInput(c.IO.Input) {
		if c.Check {
			return ferrors.NewUnsupported("--check", "a debug dump is never in fla source form")
		}
		if c.IO.Output == "" {
			return ferrors.NewValidation("output", "formatting a debug dump needs --output")
		}
	}

	root, src, err := loadRoot(ctx, c.IO.Input)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fla.RenderFormat(root, &buf); err != nil {
		return err
	}

	cmp := cas.Compare(src, buf.Bytes())
	logging.DebugContext(ctx, "format digests", "source", cmp.Source.Short(), "rendered", cmp.Rendered.Short())

	if c.Check {
		if !cmp.Unchanged() {
			return fmt.Errorf("%s is not formatted", c.IO.Input)
		}
		return nil
	}

	out := c.IO.outputPath(fla.DefaultExtension(fla.ModeFormat))
	if out == c.IO.Input && out != fileutil.Stdio && cmp.Unchanged() {
		logging.OutputSkipped(ctx, out, "unchanged")
		return nil
	}
	if err := fileutil.WriteOutput(out, buf.Bytes()); err != nil {
		return err
	}
	logging.RenderComplete(ctx, string(fla.ModeFormat), out, buf.Len())
	return nil
}

// DeckCmd exports a SQLite deck.
type DeckCmd struct {
	Input  string `arg:"" help:"Source file (.fla, .fla.xz, .fla.debug, or - for stdin)"`
	Output string `name:"output" short:"o" help:"Deck path"`
	Name   string `help:"Deck name (defaults to the input base name)"`
}

func (c *DeckCmd) Run() error {
	ctx := logging.WithFile(context.Background(), c.Input)

	out := c.Output
	if out == "" {
		if c.Input == fileutil.Stdio {
			return ferrors.NewValidation("output", "a deck read from stdin needs --output")
		}
		out = fileutil.OutputPath(c.Input, "fla.db")
	}
	if out == fileutil.Stdio {
		return ferrors.NewUnsupported("output", "a deck cannot be written to stdout")
	}
	if err := validation.ValidatePath(out); err != nil {
		return ferrors.NewValidation("output", err.Error())
	}

	root, _, err := loadRoot(ctx, c.Input)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = deckName(c.Input)
	}
	if err := deck.Export(ctx, root, name, out); err != nil {
		return err
	}
	logging.DeckExported(ctx, out, len(root.Pairs()), "name", name, "driver", sqlite.Current().Name)
	return nil
}

// GrammarCmd prints the grammar the parser is built from.
type GrammarCmd struct{}

func (c *GrammarCmd) Run() error {
	return fileutil.WriteOutput(fileutil.Stdio, []byte(syntax.Grammar()+"\n"))
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	driver := sqlite.Current()
	line := fmt.Sprintf("fla version %s (sqlite driver %s from %s)\n", version, driver.Name, driver.Package)
	return fileutil.WriteOutput(fileutil.Stdio, []byte(line))
}

// Helper functions

func renderFile(ctx context.Context, mode fla.Mode, flags IOFlags) error {
	ctx = logging.WithFile(ctx, flags.Input)

	root, _, err := loadRoot(ctx, flags.Input)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fla.Render(mode, root, &buf); err != nil {
		return err
	}

	out := flags.outputPath(fla.DefaultExtension(mode))
	if err := fileutil.WriteOutput(out, buf.Bytes()); err != nil {
		return err
	}
	logging.RenderComplete(ctx, string(mode), out, buf.Len())
	return nil
}

// loadRoot reads input and returns its tree with the raw bytes. Debug dumps
// are decoded instead of parsed.
func loadRoot(ctx context.Context, input string) (ast.Root, []byte, error) {
	data, err := fileutil.ReadInput(input)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	var root ast.Root
	if isDebugInput(input) {
		root, err = render.ReadDebug(bytes.NewReader(data), input)
	} else {
		if err := validation.ValidateSource(data); err != nil {
			return nil, nil, ferrors.NewValidation("input", fmt.Sprintf("%s: %v", input, err))
		}
		root, err = fla.Parse(input, string(data))
	}
	if err != nil {
		return nil, nil, err
	}
	logging.ParseComplete(ctx, len(data), len(root.Pairs()), time.Since(start))
	if len(root.Pairs()) == 0 {
		logging.WarnContext(ctx, "input holds no pairs")
	}
	return root, data, nil
}

func isDebugInput(path string) bool {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".xz")
	return strings.HasSuffix(p, ".debug")
}

// deckName is the input file name without its extensions.
func deckName(input string) string {
	name := filepath.Base(input)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

func initLogging(level, format string) error {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	f, err := logging.ParseFormat(format)
	if err != nil {
		return err
	}
	logging.InitLogger(lvl, f)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fla"),
		kong.Description("fla - compile notes into flashcards"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, "~/.config/fla/config.json", ".fla.json"),
	)
	ctx.FatalIfErrorf(initLogging(CLI.LogLevel, CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
