// Package fileutil reads fla inputs and writes rendered outputs.
//
// Paths ending in .xz are decompressed on read and compressed on write.
// The path "-" names stdin or stdout.
package fileutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	ferrors "github.com/FocuswithJustin/fla/core/errors"
	"github.com/FocuswithJustin/fla/internal/validation"
)

// Stdio is the path that means stdin for inputs and stdout for outputs.
const Stdio = "-"

// Stdin and Stdout are swapped out by tests.
var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

// IsCompressed reports whether path names an xz file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xz")
}

// ReadInput reads the whole input at path, decompressing .xz files. The
// header is checked against the extension and the decompressed size is
// capped at validation.MaxFileSize.
func ReadInput(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, ferrors.NewValidation("input", err.Error())
	}
	if path == Stdio {
		return readLimited(Stdin, "<stdin>")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ferrors.NewIO("open", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, ferrors.NewIO("read", path, err)
	}
	if _, err := validation.ValidateFileType(bytes.NewReader(header), path); err != nil {
		return nil, ferrors.NewValidation("input", fmt.Sprintf("%s: %v", path, err))
	}

	var r io.Reader = br
	if IsCompressed(path) {
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, ferrors.NewIO("decompress", path, err)
		}
		r = xzr
	}
	return readLimited(r, path)
}

func readLimited(r io.Reader, path string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return nil, ferrors.NewIO("read", path, err)
	}
	if len(data) > validation.MaxFileSize {
		return nil, ferrors.NewValidation("input", fmt.Sprintf("%s: %v", path, validation.ErrFileTooLarge))
	}
	return data, nil
}

// WriteOutput replaces the file at path with data, compressing .xz paths.
// The file is written to a temporary sibling and renamed into place, so a
// failed write never leaves a truncated output behind.
func WriteOutput(path string, data []byte) error {
	if err := validation.ValidatePath(path); err != nil {
		return ferrors.NewValidation("output", err.Error())
	}
	if path == Stdio {
		if _, err := Stdout.Write(data); err != nil {
			return ferrors.NewIO("write", "<stdout>", err)
		}
		return nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ferrors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeTo(tmp, path, data); err != nil {
		tmp.Close()
		return ferrors.NewIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return ferrors.NewIO("close", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return ferrors.NewIO("chmod", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return ferrors.NewIO("rename", path, err)
	}
	return nil
}

func writeTo(w io.Writer, path string, data []byte) error {
	if !IsCompressed(path) {
		_, err := w.Write(data)
		return err
	}
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := xzw.Write(data); err != nil {
		return err
	}
	return xzw.Close()
}

// OutputPath derives the default output path for input by replacing its
// final extension with ext. A trailing .xz and a .debug extension are
// dropped first, so notes.fla.xz and notes.fla.debug both build to
// notes.fla.md. An empty ext means the input itself.
func OutputPath(input, ext string) string {
	if ext == "" {
		return input
	}
	base := input
	if IsCompressed(base) {
		base = base[:len(base)-len(".xz")]
	}
	if strings.HasSuffix(strings.ToLower(base), ".debug") {
		base = base[:len(base)-len(".debug")]
	}

	name := filepath.Base(base)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		base = base[:len(base)-len(name)+i]
	}
	return base + "." + ext
}
