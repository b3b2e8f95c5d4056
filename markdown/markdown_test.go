package markdown

import (
	"strings"
	"testing"
)

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got, err := Render([]byte(tt.input))
		if err != nil {
			t.Fatalf("Render(%q) error: %v", tt.input, err)
		}
		if got = strings.TrimSpace(got); got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderKeepsMoreMarker(t *testing.T) {
	got, err := Render([]byte("Intro paragraph.\n\n<!-- more -->\n\nThe rest."))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "<!-- more -->") {
		t.Errorf("Render dropped the more marker: %q", got)
	}
	if !strings.Contains(got, "<p>Intro paragraph.</p>") {
		t.Errorf("Render missing intro paragraph: %q", got)
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	got, err := Render([]byte("```go\nfmt.Println(\"hello\")\n```"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, `<pre><code class="language-go">`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "fmt.Println(&quot;hello&quot;)") {
		t.Errorf("code block content should be escaped: %q", got)
	}
}

func TestRenderInlineCodeInParagraph(t *testing.T) {
	got, err := Render([]byte("Run `go test` to verify."))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "<code>go test</code>") {
		t.Errorf("Render = %q, want inline code tags", got)
	}
}

func TestRenderList(t *testing.T) {
	got, err := Render([]byte("- item 1\n- item 2"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	expected := "<ul>\n<li>item 1</li>\n<li>item 2</li>\n</ul>"
	if strings.TrimSpace(got) != expected {
		t.Errorf("Render = %q, want %q", got, expected)
	}
}

func TestRenderTable(t *testing.T) {
	got, err := Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |"))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("Render table failed: %q", got)
	}
}
