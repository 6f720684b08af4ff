package comment

import (
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// mentionPattern matches @handle tokens. Handles are the mention keys users
// pick in the composer, letters/digits/dot/dash/underscore only.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9._-]+)`)

// policy is the only sanitizer in the service. It readmits the markup the
// composer can produce and nothing else: our mention span with its class and
// data-mention attribute, basic inline formatting, and http(s) links.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br")
	p.AllowAttrs("class", "data-mention").OnElements("span")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireNoFollowOnLinks(true)
	return p
}()

// ExtractMentions returns the distinct mention handles in body, in order of
// first appearance.
func ExtractMentions(body string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range mentionPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// RenderMentions converts @handle tokens into mention spans and sanitizes the
// result. Sanitization runs on every render, the stored body is raw user text
// and must never reach a page unsanitized.
func RenderMentions(body string) string {
	html := mentionPattern.ReplaceAllStringFunc(body, func(tok string) string {
		handle := tok[1:]
		return fmt.Sprintf(`<span class="mention" data-mention="%s">@%s</span>`, handle, handle)
	})
	return policy.Sanitize(html)
}

// Sanitize cleans user-authored HTML without mention rewriting, for bodies
// that already carry markup.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
