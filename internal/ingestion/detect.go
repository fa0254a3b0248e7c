package ingestion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jonathan/resume-generator/internal/types"
)

var (
	htmlTagPattern     = regexp.MustCompile(`(?i)<(!doctype|html|head|body|div|p|ul|li|span|table|h[1-6])\b`)
	markdownPattern    = regexp.MustCompile(`(?m)^(#{1,6}\s|[-*]\s|\d+\.\s|> )`)
	markdownLinkOrCode = regexp.MustCompile("(\\[.+\\]\\(.+\\))|(```)")
)

// DetectContentType resolves the effective content type of an update.
// A declared type other than auto is honored as-is; auto inspects the
// content itself.
func DetectContentType(content string, declared types.ContentType) types.ContentType {
	if declared != "" && declared != types.ContentAuto {
		return declared
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return types.ContentText
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return types.ContentJSON
		}
	}

	if htmlTagPattern.MatchString(trimmed) {
		// HTML is stripped to text before parsing; it is not a
		// declarable type of its own.
		return types.ContentText
	}

	if markdownPattern.MatchString(trimmed) || markdownLinkOrCode.MatchString(trimmed) {
		return types.ContentMarkdown
	}

	return types.ContentText
}

// looksLikeHTML reports whether content appears to be an HTML document
// or snippet that should be stripped before LLM parsing.
func looksLikeHTML(content string) bool {
	return htmlTagPattern.MatchString(content)
}
