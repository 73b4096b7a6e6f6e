package io

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/trapmap/pkg/errors"
)

// Input formats.
const (
	FormatText = "text"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// FormatOf returns the input format implied by path's extension.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}
	return FormatText
}

// Read decodes r in the given format.
func Read(r io.Reader, format string) (Input, error) {
	switch format {
	case FormatText:
		return ReadText(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return Input{}, errors.ValidateFormat(format, FormatText, FormatTOML, FormatJSON)
}

// Import reads the file at path in the format its extension implies. "-"
// reads text from standard input.
func Import(path string) (Input, error) {
	if path == "-" {
		return ReadText(os.Stdin)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	in, err := Read(f, FormatOf(path))
	if err != nil {
		return Input{}, errors.New(errors.GetCode(err), "%s: %s", path, errors.UserMessage(err))
	}
	return in, nil
}
