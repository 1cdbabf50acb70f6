// Package fla is the entry point to the fla note compiler: parse a source
// buffer once, then hand the tree to exactly one renderer.
//
//	root, err := fla.Parse("notes.fla", src)
//	if err != nil {
//		return err
//	}
//	return fla.Render(fla.ModeBuild, root, w)
package fla

import (
	"io"
	"strings"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
	"github.com/FocuswithJustin/fla/core/render"
	"github.com/FocuswithJustin/fla/core/syntax"
)

// Mode selects a renderer.
type Mode string

const (
	ModeBuild   Mode = "build"
	ModeDebug   Mode = "debug"
	ModeFormat  Mode = "fmt"
	ModePreview Mode = "preview"
)

// Modes lists the writer-based render modes.
func Modes() []Mode {
	return []Mode{ModeBuild, ModeDebug, ModeFormat, ModePreview}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return "", ferrors.NewUnsupported("mode", `"`+s+`" is not a render mode`)
}

// Parse parses src into a tree whose strings share memory with src. name is
// used in error positions only.
func Parse(name, src string) (ast.Root, error) {
	return syntax.Parse(name, src)
}

// RenderBuild writes flashcard Markdown.
func RenderBuild(root ast.Root, w io.Writer) error {
	return render.Build(root, w)
}

// RenderDebug writes a structural dump.
func RenderDebug(root ast.Root, w io.Writer) error {
	return render.Debug(root, w)
}

// RenderFormat writes canonical fla source.
func RenderFormat(root ast.Root, w io.Writer) error {
	return render.Format(root, w)
}

// Render dispatches to the renderer for mode.
func Render(mode Mode, root ast.Root, w io.Writer) error {
	switch mode {
	case ModeBuild:
		return RenderBuild(root, w)
	case ModeDebug:
		return RenderDebug(root, w)
	case ModeFormat:
		return RenderFormat(root, w)
	case ModePreview:
		return render.Preview(root, w)
	default:
		return ferrors.NewUnsupported("mode", `"`+string(mode)+`" is not a render mode`)
	}
}

// DefaultExtension is the extension appended to the input's base name when
// no output path is given. Format has none: it rewrites its input.
func DefaultExtension(mode Mode) string {
	switch mode {
	case ModeBuild:
		return "fla.md"
	case ModeDebug:
		return "fla.debug"
	case ModePreview:
		return "fla.html"
	default:
		return ""
	}
}
