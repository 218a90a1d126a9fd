package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Result
	}{
		{
			name: "two terminated lines",
			text: "Hello world\nThis is a test file.\n",
			want: Result{Lines: 2, Words: 7, Chars: 33},
		},
		{
			name: "empty text",
			text: "",
			want: Result{Lines: 0, Words: 0, Chars: 0},
		},
		{
			name: "unterminated final line",
			text: "Single line file.",
			want: Result{Lines: 1, Words: 3, Chars: 17},
		},
		{
			name: "blank lines count",
			text: "a\n\n\n",
			want: Result{Lines: 3, Words: 1, Chars: 4},
		},
		{
			name: "whitespace only",
			text: "  \t ",
			want: Result{Lines: 1, Words: 0, Chars: 4},
		},
		{
			name: "multibyte characters count once",
			text: "привіт світ\n",
			want: Result{Lines: 1, Words: 2, Chars: 12},
		},
		{
			name: "mixed whitespace separators",
			text: "one\ttwo\nthree four",
			want: Result{Lines: 2, Words: 4, Chars: 18},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text))
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Run("valid text unchanged", func(t *testing.T) {
		assert.Equal(t, "héllo\n", DecodeText([]byte("héllo\n")))
	})

	t.Run("invalid bytes replaced not rejected", func(t *testing.T) {
		text := DecodeText([]byte{'a', 0xff, 0xfe, 'b'})
		assert.True(t, strings.HasPrefix(text, "a"))
		assert.True(t, strings.HasSuffix(text, "b"))
		assert.Contains(t, text, "�")
	})

	t.Run("analysis of replaced text never fails", func(t *testing.T) {
		res := Analyze(DecodeText([]byte{0xc3, 0x28, 0x00, 0xff}))
		assert.Equal(t, 1, res.Lines)
	})
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		word      string
		wantTotal int
		wantCount int
	}{
		{
			name:      "punctuation does not hide words",
			text:      "Hello, hello world. hello-world",
			word:      "hello",
			wantTotal: 5,
			wantCount: 3,
		},
		{
			name:      "case insensitive",
			text:      "Go GO go gone",
			word:      "go",
			wantTotal: 4,
			wantCount: 3,
		},
		{
			name:      "no match",
			text:      "alpha beta gamma",
			word:      "delta",
			wantTotal: 3,
			wantCount: 0,
		},
		{
			name:      "underscore stays inside a token",
			text:      "foo_bar foo bar",
			word:      "foo",
			wantTotal: 3,
			wantCount: 1,
		},
		{
			name:      "empty text",
			text:      "",
			word:      "anything",
			wantTotal: 0,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, count := Occurrences(tt.text, tt.word)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}
