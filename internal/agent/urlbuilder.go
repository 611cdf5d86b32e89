package agent

import (
	"net/url"
	"strings"
)

// cleanSegments drops empty path segments and strips leading and trailing
// slashes from the rest. Interior slashes are preserved so a caller can
// pass a pre-joined sub-path like "agents/my-agent" as one segment.
func cleanSegments(segments []string) []string {
	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.Trim(segment, "/")
		if segment == "" {
			continue
		}
		cleaned = append(cleaned, segment)
	}
	return cleaned
}

// JoinSegments joins path segments with single slashes, dropping empty
// segments and normalizing leading/trailing slashes on each.
func JoinSegments(segments ...string) string {
	return strings.Join(cleanSegments(segments), "/")
}

// BuildURL composes a base URL, path segments and an optional query
// mapping into one well-formed URL.
//
// The base URL's existing path (if any) is preserved in front of the new
// segments, exactly one slash separates any two non-empty segments, and
// the query mapping is merged into any query already present on the base.
// The function is idempotent: building again from an already-built URL
// with no extra segments and no query returns the same string.
//
// A base URL that does not parse is not an error; the segments are joined
// onto it naively and the malformed result is left to the server to
// reject.
func BuildURL(base string, query map[string]string, segments ...string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		parts := append([]string{strings.TrimRight(base, "/")}, cleanSegments(segments)...)
		return strings.Join(parts, "/")
	}

	parts := cleanSegments(segments)
	if basePath := strings.Trim(parsed.Path, "/"); basePath != "" {
		parts = append([]string{basePath}, parts...)
	}
	if len(parts) > 0 {
		parsed.Path = "/" + strings.Join(parts, "/")
	}

	if len(query) > 0 {
		values := parsed.Query()
		for key, value := range query {
			values.Set(key, value)
		}
		parsed.RawQuery = values.Encode()
	}

	return parsed.String()
}
