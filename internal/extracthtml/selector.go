package extracthtml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// ErrInvalidSelector is returned when a CSS selector does not compile.
// goquery silently matches nothing for such selectors, so they are checked
// before any traversal.
var ErrInvalidSelector = errors.New("invalid selector")

// CompileSelector parses sel as a CSS selector group. The result satisfies
// goquery.Matcher.
func CompileSelector(sel string) (cascadia.Selector, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	m, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, sel, err)
	}
	return m, nil
}
