package textutil

import "testing"

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`>>> Ben & Nuts sont "fous" l'un de l'autre <3`)
	want := "&gt;&gt;&gt; Ben &amp; Nuts sont &quot;fous&quot; l&#039;un de l&#039;autre &lt;3"
	if got != want {
		t.Errorf("EscapeHTML() = %q, want %q", got, want)
	}
}

func TestEscapeHTMLNoSpecials(t *testing.T) {
	if got := EscapeHTML("plain title"); got != "plain title" {
		t.Errorf("expected unchanged string, got %q", got)
	}
}

func TestMarkdownToDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold markers", "a **bold** claim", "a *bold* claim"},
		{"line breaks", "first<br>second<br/>third<br />fourth", "first\nsecond\nthird\nfourth"},
		{"angle brackets", "tuples like <a, b>", "tuples like &lt;a, b&gt;"},
		{"plain text", "nothing special", "nothing special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToDescription(tt.input); got != tt.want {
				t.Errorf("MarkdownToDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slashes", "Amphi A/B", "Amphi A-B"},
		{"colon", "Salle: 2", "Salle- 2"},
		{"question mark", "Room?", "Room"},
		{"trimmed", "  Amphi  ", "Amphi"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
