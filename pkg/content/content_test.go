package content

import (
	"strings"
	"testing"
)

func TestSanitizeKeepsAllowedTags(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b>", "<b>bold</b>"},
		{"<em>em</em> and <u>under</u>", "<em>em</em> and <u>under</u>"},
		{"<ul><li>one</li><li>two</li></ul>", "<ul><li>one</li><li>two</li></ul>"},
		{"line<br>break", "line<br/>break"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeDropsDisallowedTags(t *testing.T) {
	got := Sanitize(`<script>alert(1)</script><b onclick="x()">hi</b>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("Dangerous markup survived: %q", got)
	}
	if !strings.Contains(got, "<b>hi</b>") {
		t.Errorf("Allowed tag lost its attributes the wrong way: %q", got)
	}
}

func TestSanitizeKeepsTextOfDroppedTags(t *testing.T) {
	got := Sanitize(`<div><p>kept text</p></div>`)
	if got != "kept text" {
		t.Errorf("Expected inner text only, got %q", got)
	}
}

func TestSanitizeSpanClass(t *testing.T) {
	got := Sanitize(`<span class="math">x^2</span>`)
	if got != `<span class="math">x^2</span>` {
		t.Errorf("Math marker should survive, got %q", got)
	}

	got = Sanitize(`<span class="evil" style="x">y</span>`)
	if got != "<span>y</span>" {
		t.Errorf("Unknown span class should be stripped, got %q", got)
	}
}

func TestSanitizeBalancesUnclosedTags(t *testing.T) {
	got := Sanitize("<b><i>deep")
	if got != "<b><i>deep</i></b>" {
		t.Errorf("Unclosed tags should be balanced, got %q", got)
	}

	// A stray end tag with no matching open tag is dropped.
	got = Sanitize("text</b>")
	if got != "text" {
		t.Errorf("Stray end tag should vanish, got %q", got)
	}
}

func TestSanitizeEscapesText(t *testing.T) {
	got := Sanitize("a < b & c")
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("Text should be escaped, got %q", got)
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten("<b>Topic</b><br><ul><li>alpha</li><li>beta</li></ul>")
	if !strings.Contains(got, "Topic") || !strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
		t.Errorf("Flatten lost text: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("Flatten kept markup: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("List items should be separated: %q", got)
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(""); got != "" {
		t.Errorf("Flatten(\"\") = %q", got)
	}
}
