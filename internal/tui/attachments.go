package tui

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Terminals deliver drag+dropped files as pasted text: plain paths, quoted
// paths or file:// URIs, one or more per paste. pathsFromPaste recognizes a
// paste that consists entirely of existing document files and returns their
// cleaned paths; anything else returns nil so the paste falls through to the
// input as ordinary text.
func pathsFromPaste(pasted string) []string {
	tokens := splitShellLikeFields(pasted)
	if len(tokens) == 0 {
		return nil
	}

	paths := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		p, ok := normalizePastedPath(tok)
		if !ok {
			return nil
		}
		if !isExistingDocumentFile(p) {
			return nil
		}
		paths = append(paths, p)
	}
	return paths
}

func normalizePastedPath(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	// Common terminals emit file:// URIs on drag+drop.
	if strings.HasPrefix(token, "file://") {
		u, err := url.Parse(token)
		if err != nil {
			return "", false
		}
		path := u.Path
		if path == "" && u.Opaque != "" {
			path = u.Opaque
		}
		if path == "" {
			return "", false
		}
		if decoded, err := url.PathUnescape(path); err == nil {
			path = decoded
		}
		token = path
	}

	if strings.HasPrefix(token, "~/") || token == "~" {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			if token == "~" {
				token = home
			} else {
				token = filepath.Join(home, token[2:])
			}
		}
	}

	if !filepath.IsAbs(token) {
		if wd, err := os.Getwd(); err == nil {
			token = filepath.Join(wd, token)
		}
	}

	return filepath.Clean(token), true
}

func isExistingDocumentFile(path string) bool {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return false
	}
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return st.Mode().IsRegular()
}

func normalizeNewlines(s string) string {
	if strings.Contains(s, "\r") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return s
}

// splitShellLikeFields splits on whitespace while honoring quotes and
// backslash escapes, so paths with spaces survive a drag+drop paste.
func splitShellLikeFields(s string) []string {
	s = strings.TrimSpace(normalizeNewlines(s))
	if s == "" {
		return nil
	}

	var out []string
	var b strings.Builder

	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if b.Len() == 0 {
			return
		}
		out = append(out, b.String())
		b.Reset()
	}

	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' && !inSingle {
			escaped = true
			continue
		}
		if r == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if r == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if unicode.IsSpace(r) && !inSingle && !inDouble {
			flush()
			continue
		}
		b.WriteRune(r)
	}

	if escaped {
		b.WriteRune('\\')
	}
	flush()

	return out
}
