package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// RenderFrontmatter prefixes body with meta encoded as a YAML frontmatter block.
// meta may be a struct to keep key order stable.
func RenderFrontmatter(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// SplitFrontmatter decodes a leading frontmatter block into out and returns the body.
// Content without frontmatter is returned unchanged and out is left untouched.
func SplitFrontmatter(content string, out any) (string, error) {
	if !strings.HasPrefix(content, separator) {
		return content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), out); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return rest[idx+1+len(separator):], nil
}
