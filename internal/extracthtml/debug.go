package extracthtml

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DebugPrintSelector prints either outer HTML or text of matches for a selector,
// each followed by a blank line. It returns the number of matches.
func DebugPrintSelector(w io.Writer, html, selector string, textOnly bool) (int, error) {
	m, err := CompileSelector(selector)
	if err != nil {
		return 0, err
	}
	doc, err := ParseDocument(html)
	if err != nil {
		return 0, err
	}

	matches := doc.FindMatcher(m)
	matches.Each(func(_ int, s *goquery.Selection) {
		if textOnly {
			fmt.Fprintln(w, strings.TrimSpace(s.Text()))
			fmt.Fprintln(w)
			return
		}
		out, err := goquery.OuterHtml(s)
		if err != nil {
			out, _ = s.Html()
		}
		fmt.Fprintln(w, out)
		fmt.Fprintln(w)
	})
	return matches.Length(), nil
}
