package meetup

import "testing"

func TestDurationString(t *testing.T) {
	tests := []struct {
		name   string
		millis int64
		want   string
	}{
		{"zero", 0, ""},
		{"two hours exactly", 2 * 3600000, " 2 horas"},
		{"ninety minutes", 90 * 60000, " 1 horas e 30 minutos"},
		{"forty-five minutes", 45 * 60000, " e 45 minutos"},
		{"three and a half hours", 210 * 60000, " 3 horas e 30 minutos"},
		{"seconds only", 59000, ""},
		{"day long", 26 * 3600000, " 26 horas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DurationString(tt.millis)
			if got != tt.want {
				t.Errorf("DurationString(%d) = %q, want %q", tt.millis, got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<p class=\"x\">A <b>bold</b> move</p>", "A bold move"},
		{"no tags", "no tags"},
		{"<p\nstyle=\"a\">multi-line tag</p>", "multi-line tag"},
		{"trailing <unterminated", "trailing "},
		{"1 < 2", "1 "},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := StripHTML(tt.input)
			if got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "first br becomes newline",
			input: "<p>Linha 1<br/>Linha 2</p>",
			want:  "Linha 1\nLinha 2",
		},
		{
			name:  "only first br is converted",
			input: "<p>a<br/>b<br/>c</p>",
			want:  "a\nbc",
		},
		{
			name:  "other br spellings are stripped",
			input: "a<br>b<br />c",
			want:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanDescription(tt.input)
			if got != tt.want {
				t.Errorf("CleanDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHighResURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"https://secure.meetupstatic.com/photos/event/global_123.jpeg",
			"https://secure.meetupstatic.com/photos/event/highres_123.jpeg",
		},
		{
			"https://example.com/global/global_1.jpeg",
			"https://example.com/highres/global_1.jpeg",
		},
		{
			"https://example.com/thumb_1.jpeg",
			"https://example.com/thumb_1.jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := HighResURL(tt.input); got != tt.want {
				t.Errorf("HighResURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("Hello\nworld"); got != "Hello" {
		t.Errorf("FirstLine() = %q, want %q", got, "Hello")
	}
	if got := FirstLine("single"); got != "single" {
		t.Errorf("FirstLine() = %q, want %q", got, "single")
	}
	if got := FirstLine(""); got != "" {
		t.Errorf("FirstLine() = %q, want empty", got)
	}
}
