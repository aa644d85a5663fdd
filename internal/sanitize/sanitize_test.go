package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Nike", "Nike"},
		{"trim", "  Red \n", "Red"},
		{"bold tag", "<b>Nike</b>", "Nike"},
		{"script dropped", `Shoes<script>alert("x")</script>`, "Shoes"},
		{"attributes dropped", `<a href="javascript:alert(1)" onclick="x()">Adidas</a>`, "Adidas"},
		{"ampersand kept", "Black & White", "Black & White"},
		{"quotes kept", `Levi's "501"`, `Levi's "501"`},
		{"unclosed bracket kept", "A<B", "A<B"},
		{"comparison kept", "1 < 2", "1 < 2"},
		{"trailing bracket kept", "size <XL", "size <XL"},
		{"stray before tag", "<<b>Acme</b>", "<Acme"},
		{"unterminated script is text", "x <script", "x <script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeUnclosed(t *testing.T) {
	tests := map[string]string{
		"plain":     "plain",
		"A<B":       "A&lt;B",
		"<b>x</b>":  "<b>x</b>",
		"<<b>":      "&lt;<b>",
		"a < b > c": "a < b > c",
	}
	for in, want := range tests {
		if got := escapeUnclosed(in); got != want {
			t.Errorf("escapeUnclosed(%q) = %q, want %q", in, got, want)
		}
	}
}
