package comment

import (
	"strings"
	"testing"
)

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("cc @maya.k and @jordan, @maya.k please confirm")
	if len(got) != 2 || got[0] != "maya.k" || got[1] != "jordan" {
		t.Errorf("mentions = %v, want [maya.k jordan]", got)
	}
	if got := ExtractMentions("no mentions here"); got != nil {
		t.Errorf("mentions = %v, want nil", got)
	}
}

func TestRenderMentionsWrapsTokens(t *testing.T) {
	got := RenderMentions("ping @sam about the rack")
	want := `<span class="mention" data-mention="sam">@sam</span>`
	if !strings.Contains(got, want) {
		t.Errorf("render = %q, want it to contain %q", got, want)
	}
}

func TestRenderMentionsStripsScripts(t *testing.T) {
	cases := []struct {
		name string
		body string
		bad  []string
	}{
		{
			name: "script tag",
			body: `hey @sam <script>alert(1)</script>`,
			bad:  []string{"<script", "alert(1)"},
		},
		{
			name: "event handler",
			body: `<b onclick="steal()">bold</b> @sam`,
			bad:  []string{"onclick", "steal"},
		},
		{
			name: "javascript href",
			body: `<a href="javascript:alert(1)">link</a>`,
			bad:  []string{"javascript:"},
		},
		{
			name: "img onerror",
			body: `<img src=x onerror="alert(1)">`,
			bad:  []string{"<img", "onerror"},
		},
		{
			name: "foreign data attribute",
			body: `<span class="mention" data-evil="x" data-mention="ok">@ok</span>`,
			bad:  []string{"data-evil"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderMentions(tc.body)
			for _, frag := range tc.bad {
				if strings.Contains(got, frag) {
					t.Errorf("sanitized output %q still contains %q", got, frag)
				}
			}
		})
	}
}

func TestRenderMentionsKeepsAllowedMarkup(t *testing.T) {
	got := RenderMentions("<b>urgent</b> and <em>today</em>")
	if !strings.Contains(got, "<b>urgent</b>") || !strings.Contains(got, "<em>today</em>") {
		t.Errorf("allowed inline markup was stripped: %q", got)
	}

	got = Sanitize(`<a href="https://example.com/board">board</a>`)
	if !strings.Contains(got, `href="https://example.com/board"`) {
		t.Errorf("https link was stripped: %q", got)
	}
}
