// Package htmlsanitize cleans user-supplied rich text (course, pdf and
// class descriptions) before it is stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "sub", "sup", "mark")
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, unsafe URLs and disallowed
// elements, keeping ordinary formatting markup.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(s))
}
