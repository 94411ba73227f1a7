// Package markup converts the Markdown dialect produced by the Dify backend
// into Slack mrkdwn. The conversion is a fixed-order rewrite pipeline: code is
// shielded behind placeholder tokens first, then links, headings, bullets,
// strong emphasis, strikethrough and plain emphasis are rewritten, and finally
// the shielded spans are materialized. The order matters - later stages would
// otherwise misfire on markers produced or consumed by earlier stages.
package markup

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedCodeRegex = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRegex = regexp.MustCompile("`[^`\\n]+`")
	linkRegex       = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	headingRegex    = regexp.MustCompile(`(?m)^([ \t]*)#{1,6}[ \t]+(.+)$`)

	// Bullet markers must be normalized to "* " before emphasis rewriting
	// runs, because Slack uses the same asterisk for bullets and for bold.
	bulletRegex      = regexp.MustCompile(`(?m)^([ \t]*)\*[ \x{3000}]+`)
	bulletGlyphRegex = regexp.MustCompile(`(?m)^([ \t]*)[・•][ \t\x{3000}]+`)

	strongAsteriskRegex   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnderscoreRegex = regexp.MustCompile(`__(.+?)__`)
	strikethroughRegex    = regexp.MustCompile(`~~(.+?)~~`)
	emphasisRegex         = regexp.MustCompile(`\*([^*\n]+)\*`)
	bulletPrefixRegex     = regexp.MustCompile(`^[ \t]*\* `)
)

// shieldedSpan pairs a placeholder token with the text it stands in for.
type shieldedSpan struct {
	token string
	text  string
}

type translator struct {
	counter     int
	codeBlocks  []shieldedSpan
	inlineSpans []shieldedSpan
	headings    []shieldedSpan
	strongSpans []shieldedSpan
}

// ToSlack converts Markdown-flavored text into Slack mrkdwn. It is total:
// any input is valid, and text with no recognized constructs passes through
// unchanged apart from bullet-separator normalization.
func ToSlack(text string) string {
	t := &translator{}

	result := t.shieldCode(text)
	result = linkRegex.ReplaceAllString(result, "<$2|$1>")
	result = t.shieldHeadings(result)
	result = normalizeBullets(result)
	result = t.shieldStrong(result)
	result = strikethroughRegex.ReplaceAllString(result, "~$1~")
	result = rewriteEmphasis(result)

	return t.materialize(result)
}

// placeholder returns a token that cannot collide with message text: NUL
// delimiters never survive Slack/Dify JSON payloads, and the counter keeps
// tokens unique per extracted span.
func (t *translator) placeholder(kind string) string {
	t.counter++
	return fmt.Sprintf("\x00%s:%d\x00", kind, t.counter)
}

// shieldCode removes fenced blocks and inline spans so that no later rewrite
// can touch literal code. Fenced blocks go first so their inner backticks are
// not picked up as inline spans.
func (t *translator) shieldCode(text string) string {
	result := fencedCodeRegex.ReplaceAllStringFunc(text, func(block string) string {
		token := t.placeholder("codeblock")
		t.codeBlocks = append(t.codeBlocks, shieldedSpan{token: token, text: block})
		return token
	})

	return inlineCodeRegex.ReplaceAllStringFunc(result, func(span string) string {
		token := t.placeholder("codespan")
		t.inlineSpans = append(t.inlineSpans, shieldedSpan{token: token, text: span})
		return token
	})
}

// shieldHeadings extracts heading text for deferred rendering. Slack has no
// heading primitive, so headings come back as bold text - but only after the
// generic bold rules have run, otherwise the heading body could be re-matched
// as nested emphasis.
func (t *translator) shieldHeadings(text string) string {
	return headingRegex.ReplaceAllStringFunc(text, func(line string) string {
		parts := headingRegex.FindStringSubmatch(line)
		indent, content := parts[1], parts[2]

		// A heading renders as one bold span, so strong markers inside it
		// would produce doubled asterisks. Strip them.
		content = strongAsteriskRegex.ReplaceAllString(content, "$1")
		content = strongUnderscoreRegex.ReplaceAllString(content, "$1")

		token := t.placeholder("heading")
		t.headings = append(t.headings, shieldedSpan{token: token, text: content})
		return indent + token
	})
}

// shieldStrong extracts **text** and __text__ spans. Deferred like headings:
// the Slack bold marker is the same character the plain-emphasis rule matches
// on, so substituting early would corrupt the emphasis pass.
func (t *translator) shieldStrong(text string) string {
	shield := func(re *regexp.Regexp, input string) string {
		return re.ReplaceAllStringFunc(input, func(span string) string {
			inner := re.FindStringSubmatch(span)[1]
			token := t.placeholder("strong")
			t.strongSpans = append(t.strongSpans, shieldedSpan{token: token, text: inner})
			return token
		})
	}

	return shield(strongUnderscoreRegex, shield(strongAsteriskRegex, text))
}

// normalizeBullets rewrites bullet lines to the canonical "* " prefix,
// collapsing extra separator whitespace (including full-width spaces) and
// converting alternate bullet glyphs.
func normalizeBullets(text string) string {
	result := bulletGlyphRegex.ReplaceAllString(text, "$1* ")
	return bulletRegex.ReplaceAllString(result, "$1* ")
}

// rewriteEmphasis converts *text* spans to _text_. It runs line by line so
// that a normalized bullet prefix is never consumed as the opening delimiter
// of an emphasis span.
func rewriteEmphasis(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix := bulletPrefixRegex.FindString(line)
		rest := line[len(prefix):]
		lines[i] = prefix + emphasisRegex.ReplaceAllString(rest, "_$1_")
	}
	return strings.Join(lines, "\n")
}

// materialize re-inserts the shielded spans. Order is fixed: headings and
// strong spans become Slack bold, then code comes back verbatim and last, so
// no rewrite rule ever touches code content.
func (t *translator) materialize(text string) string {
	result := text
	for _, h := range t.headings {
		result = strings.Replace(result, h.token, "*"+h.text+"*", 1)
	}
	for _, s := range t.strongSpans {
		result = strings.Replace(result, s.token, "*"+s.text+"*", 1)
	}
	for _, c := range t.codeBlocks {
		result = strings.Replace(result, c.token, c.text, 1)
	}
	for _, c := range t.inlineSpans {
		result = strings.Replace(result, c.token, c.text, 1)
	}
	return result
}
