package conv

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions  = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags   = html.CommonFlags
	slackPolicy = bluemonday.NewPolicy()

	linkRe = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)

	tagReplacer = strings.NewReplacer(
		"<b>", "*", "</b>", "*",
		"<strong>", "*", "</strong>", "*",
		"<i>", "_", "</i>", "_",
		"<em>", "_", "</em>", "_",
		"<s>", "~", "</s>", "~",
		"<del>", "~", "</del>", "~",
		"<code>", "`", "</code>", "`",
		"<pre>", "```\n", "</pre>", "```",
		"<blockquote>", "> ", "</blockquote>", "",
		"<li>", "• ", "</li>", "",
	)
)

func init() {
	// Tags Slack mrkdwn has an equivalent for; everything else is stripped
	// down to its text content.
	slackPolicy.AllowElements("b", "strong", "i", "em", "s", "del", "code", "pre", "blockquote", "li")
	slackPolicy.AllowAttrs("href").OnElements("a")
}

// MarkdownToMrkdwn converts model-produced Markdown into Slack mrkdwn.
// Slack does not accept HTML, so the rendered tree is sanitized first and
// the surviving tags are mapped onto mrkdwn tokens.
func MarkdownToMrkdwn(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	sanitized := string(slackPolicy.SanitizeBytes(unsafeHTML))

	// <a href="u">t</a> -> <u|t>
	sanitized = linkRe.ReplaceAllString(sanitized, "<$1|$2>")
	sanitized = tagReplacer.Replace(sanitized)

	// Nested <code> inside <pre> leaves stray backticks around fences.
	sanitized = strings.ReplaceAll(sanitized, "```\n`", "```\n")
	sanitized = strings.ReplaceAll(sanitized, "````", "```")

	return strings.TrimSpace(stdhtml.UnescapeString(sanitized))
}
