package htmlutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple paragraph",
			in:   "<p>Hello <b>world</b></p>",
			want: "Hello world",
		},
		{
			name: "script dropped",
			in:   "<p>visible</p><script>var hidden = 1;</script>",
			want: "visible",
		},
		{
			name: "whitespace collapsed",
			in:   "<div>  one\n\n  two  </div>",
			want: "one two",
		},
		{
			name: "plain text unchanged",
			in:   "already plain",
			want: "already plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}
