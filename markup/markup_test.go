package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSlack(t *testing.T) {
	t.Run("PlainTextPassesThrough", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{name: "Empty string", input: ""},
			{name: "Simple sentence", input: "Nothing special here."},
			{name: "Multiple lines", input: "first line\nsecond line\nthird line"},
			{name: "Punctuation only", input: "!?.,;:"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.input, ToSlack(tt.input))
			})
		}
	})

	t.Run("ConvertStrongEmphasis", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Double asterisk",
				input:    "**bold**",
				expected: "*bold*",
			},
			{
				name:     "Double underscore",
				input:    "__bold__",
				expected: "*bold*",
			},
			{
				name:     "Bold inside sentence",
				input:    "This is **bold** text",
				expected: "This is *bold* text",
			},
			{
				name:     "Multiple bold spans",
				input:    "**one** and **two**",
				expected: "*one* and *two*",
			},
			{
				name:     "Bold across lines",
				input:    "First **bold**\nSecond **more**",
				expected: "First *bold*\nSecond *more*",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, ToSlack(tt.input))
			})
		}
	})

	t.Run("ConvertHeadings", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Heading level 1",
				input:    "# Title",
				expected: "*Title*",
			},
			{
				name:     "Heading level 3",
				input:    "### Deep heading",
				expected: "*Deep heading*",
			},
			{
				name:     "Indented heading",
				input:    "  ## Indented",
				expected: "  *Indented*",
			},
			{
				name:     "Heading with embedded bold",
				input:    "## A **bold** title",
				expected: "*A bold title*",
			},
			{
				name:     "Multiple headings with body text",
				input:    "# First\nSome text\n## Second",
				expected: "*First*\nSome text\n*Second*",
			},
			{
				name:     "Hash in the middle of a line is not a heading",
				input:    "this is not # a heading",
				expected: "this is not # a heading",
			},
			{
				name:     "Hash without trailing space is not a heading",
				input:    "#hashtag",
				expected: "#hashtag",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, ToSlack(tt.input))
			})
		}
	})

	t.Run("ConvertLinks", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Basic link",
				input:    "[click](http://x.test)",
				expected: "<http://x.test|click>",
			},
			{
				name:     "HTTPS link inside sentence",
				input:    "see [docs](https://docs.example.com/a?b=1) for details",
				expected: "see <https://docs.example.com/a?b=1|docs> for details",
			},
			{
				name:     "Non-http scheme stays untouched",
				input:    "[broken](ftp://nope.test)",
				expected: "[broken](ftp://nope.test)",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, ToSlack(tt.input))
			})
		}
	})

	t.Run("ConvertStrikethrough", func(t *testing.T) {
		assert.Equal(t, "~gone~", ToSlack("~~gone~~"))
		assert.Equal(t, "keep ~this~ text", ToSlack("keep ~~this~~ text"))
	})

	t.Run("ConvertEmphasisVersusBullets", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Plain emphasis",
				input:    "*em*",
				expected: "_em_",
			},
			{
				name:     "Bullet marker survives",
				input:    "* item",
				expected: "* item",
			},
			{
				name:     "Bullet line with emphasis in the body",
				input:    "* item with *em* text",
				expected: "* item with _em_ text",
			},
			{
				name:     "Bullet separator collapses to one space",
				input:    "*   spaced item",
				expected: "* spaced item",
			},
			{
				name:     "Full-width space separator",
				input:    "*　item",
				expected: "* item",
			},
			{
				name:     "Centered dot bullet glyph",
				input:    "・ item",
				expected: "* item",
			},
			{
				name:     "Indented bullet",
				input:    "  * nested item",
				expected: "  * nested item",
			},
			{
				name:     "Emphasis on non-bullet line",
				input:    "some *emphasized* words",
				expected: "some _emphasized_ words",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, ToSlack(tt.input))
			})
		}
	})

	t.Run("CodeShielding", func(t *testing.T) {
		t.Run("Inline code is untouched", func(t *testing.T) {
			assert.Equal(t, "`*not-emphasis*`", ToSlack("`*not-emphasis*`"))
		})

		t.Run("Fenced block keeps markdown verbatim", func(t *testing.T) {
			block := "```\n# not a heading\n**not bold**\n* not a bullet\n```"
			assert.Equal(t, block, ToSlack(block))
		})

		t.Run("Rewrites still apply around code", func(t *testing.T) {
			input := "**bold** then `**literal**` end"
			assert.Equal(t, "*bold* then `**literal**` end", ToSlack(input))
		})

		t.Run("Link inside fenced block is untouched", func(t *testing.T) {
			block := "```\n[label](http://x.test)\n```"
			assert.Equal(t, block, ToSlack(block))
		})

		t.Run("No placeholder tokens leak", func(t *testing.T) {
			inputs := []string{
				"# Head\n**bold** `code`\n```\nfence\n```\n* bullet *em*",
				"``` only opening fence",
				"`unclosed inline",
			}
			for _, input := range inputs {
				out := ToSlack(input)
				assert.NotContains(t, out, "\x00")
			}
		})
	})

	t.Run("MixedDocument", func(t *testing.T) {
		input := strings.Join([]string{
			"# Summary",
			"",
			"Everything **worked**:",
			"",
			"* step one ran `make build`",
			"* step two is *optional*",
			"",
			"See [logs](https://ci.example.com/run/42) or ~~the old dashboard~~.",
		}, "\n")

		expected := strings.Join([]string{
			"*Summary*",
			"",
			"Everything *worked*:",
			"",
			"* step one ran `make build`",
			"* step two is _optional_",
			"",
			"See <https://ci.example.com/run/42|logs> or ~the old dashboard~.",
		}, "\n")

		assert.Equal(t, expected, ToSlack(input))
	})
}
