package markdown_test

import (
	"strings"
	"testing"

	"sleeptrack/internal/platform/markdown"
)

type meta struct {
	Title  string `yaml:"title"`
	Nights int    `yaml:"nights"`
}

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(meta{Title: "Sleep", Nights: 3}, "# Sleep\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\ntitle: Sleep\nnights: 3\n---\n") {
		t.Fatalf("unexpected frontmatter: %q", rendered)
	}
	got := meta{}
	body, err := markdown.SplitFrontmatter(rendered, &got)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if got.Title != "Sleep" || got.Nights != 3 {
		t.Fatalf("unexpected meta: %+v", got)
	}
	if !strings.Contains(body, "# Sleep") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontmatterEdgeCases(t *testing.T) {
	t.Parallel()
	got := meta{Title: "keep"}
	body, err := markdown.SplitFrontmatter("plain", &got)
	if err != nil || body != "plain" || got.Title != "keep" {
		t.Fatalf("plain content should pass through, got %q %+v %v", body, got, err)
	}
	if _, err := markdown.SplitFrontmatter("---\ntitle: x\n", &got); err == nil {
		t.Fatalf("unterminated frontmatter should fail")
	}
}

func TestTableEscapesPipes(t *testing.T) {
	t.Parallel()
	out := markdown.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}, {"only"}})
	want := "| A | B |\n| --- | --- |\n| x\\|y | z |\n| only |  |\n"
	if out != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", out, want)
	}
}
