// Package manifest reads a mod's self-description file. Manifests in the wild
// are only loosely JSON: comments, unquoted keys and trailing commas are all
// common, so the file is comment-stripped and then parsed as JSON5.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/haldre/modhaven/pkg/errors"
	"github.com/haldre/modhaven/pkg/model"
)

// Filename is the manifest file name expected at a mod's root.
const Filename = "mod_info.json"

// PathFor returns the manifest path for a mod root directory.
func PathFor(modRoot string) string {
	return filepath.Join(modRoot, Filename)
}

// Parse reads the manifest at path into a ModEntry. The entry's Path is set
// to the manifest's directory; Enabled and RemoteVersion are left for the
// caller to compute.
func Parse(path string) (*model.ModEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	entry := &model.ModEntry{}
	if err := json5.Unmarshal(StripComments(data), entry); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestMalformed, "%s: %v", path, err)
	}

	for _, field := range []struct{ key, value string }{
		{"id", entry.ID},
		{"name", entry.Name},
		{"version", entry.Version},
		{"gameVersion", entry.GameVersion},
	} {
		if field.value == "" {
			return nil, errors.Wrapf(errors.ErrManifestMissingField, "%s: %q", path, field.key)
		}
	}

	entry.Path = filepath.Dir(path)
	return entry, nil
}

// StripComments removes // line comments and /* block */ comments from raw
// JSON text while leaving string contents untouched. The result is parsed as
// JSON5, which tolerates unquoted keys and trailing commas on its own.
func StripComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	const (
		code = iota
		inString
		lineComment
		blockComment
	)
	state := code

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = inString
				out = append(out, c)
			case c == '/' && i+1 < len(data) && data[i+1] == '/':
				state = lineComment
				i++
			case c == '/' && i+1 < len(data) && data[i+1] == '*':
				state = blockComment
				i++
			default:
				out = append(out, c)
			}
		case inString:
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				i++
				out = append(out, data[i])
			} else if c == '"' {
				state = code
			}
		case lineComment:
			if c == '\n' {
				state = code
				out = append(out, c)
			}
		case blockComment:
			if c == '*' && i+1 < len(data) && data[i+1] == '/' {
				state = code
				i++
			}
		}
	}
	return out
}
