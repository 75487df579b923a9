package extracthtml

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument parses markup into a goquery document.
func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ExtractOneHTML parses the given HTML string and applies mappings relative to
// the document root.
//
// This is the "single object" extraction mode: mappings are evaluated against
// the full document and returned as a single JSON-ready map.
//
// Missing selectors are not treated as errors; they simply produce no output.
func ExtractOneHTML(html string, mappings []Mapping) (map[string]any, error) {
	compiled, err := compileMappings(mappings)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(html)
	if err != nil {
		return nil, err
	}
	return parseSelection(doc.Selection, compiled), nil
}

// ExtractRecordsHTML parses the given HTML string and extracts one JSON-ready
// map per record container matched by recordSelector.
//
// Each element matched by recordSelector becomes an independent extraction
// root, and mappings are evaluated relative to that root. Records that yield
// no fields are dropped. The returned slice preserves DOM order.
func ExtractRecordsHTML(html, recordSelector string, mappings []Mapping) ([]map[string]any, error) {
	doc, err := ParseDocument(html)
	if err != nil {
		return nil, err
	}
	return ExtractRecords(doc, recordSelector, mappings)
}

// ExtractRecords is ExtractRecordsHTML over an already parsed document.
// Selectors and regexes are validated before the document is touched.
func ExtractRecords(doc *goquery.Document, recordSelector string, mappings []Mapping) ([]map[string]any, error) {
	recSel, err := CompileSelector(recordSelector)
	if err != nil {
		return nil, err
	}
	compiled, err := compileMappings(mappings)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	doc.FindMatcher(recSel).Each(func(_ int, rec *goquery.Selection) {
		if obj := parseSelection(rec, compiled); len(obj) > 0 {
			records = append(records, obj)
		}
	})
	return records, nil
}

type compiledMapping struct {
	Mapping
	matcher goquery.Matcher
	re      *regexp.Regexp
}

func compileMappings(mappings []Mapping) ([]compiledMapping, error) {
	out := make([]compiledMapping, 0, len(mappings))
	for _, m := range mappings {
		sel, err := CompileSelector(m.Selector)
		if err != nil {
			return nil, fmt.Errorf("mapping %q: %w", m.JSONPath, err)
		}
		re, err := compileOptionalRegex(m.Match, m.JSONPath)
		if err != nil {
			return nil, err
		}
		out = append(out, compiledMapping{Mapping: m, matcher: sel, re: re})
	}
	return out, nil
}

// parseSelection applies all mappings relative to root and returns a JSON-ready map.
//
// Semantics:
//   - If Mapping.All is true, all selector matches are collected into []string.
//   - Otherwise one match is extracted: the first, or the last when
//     Mapping.Pick is "last".
//   - If Mapping.Match is set, it is treated as a regular expression:
//   - If the regex contains capturing groups, group 1 is used as output.
//   - Otherwise, the full match is used.
//     If the regex does not match, the field is omitted.
//
// Missing selectors are not treated as errors; they simply produce no output.
func parseSelection(root *goquery.Selection, mappings []compiledMapping) map[string]any {
	output := make(map[string]any)

	for _, mapping := range mappings {
		if mapping.All {
			var vals []string
			root.FindMatcher(mapping.matcher).Each(func(_ int, sel *goquery.Selection) {
				v := applyRegexFilter(extractValue(sel, mapping.Mapping), mapping.re)
				if v == "" {
					return
				}
				vals = append(vals, v)
			})
			if len(vals) > 0 {
				output[mapping.JSONPath] = vals
			}
			continue
		}

		matches := root.FindMatcher(mapping.matcher)
		if matches.Length() == 0 {
			continue
		}
		sel := matches.First()
		if mapping.Pick == PickLast {
			sel = matches.Last()
		}

		v := applyRegexFilter(extractValue(sel, mapping.Mapping), mapping.re)
		if v == "" {
			continue
		}
		output[mapping.JSONPath] = v
	}

	return output
}

// extractValue converts a matched node into the extracted string value.
// It returns "" to represent "no value" for this mapping at this node.
func extractValue(sel *goquery.Selection, m Mapping) string {
	switch m.Extract {
	case "", "text":
		return strings.TrimSpace(sel.Text())
	case "attr":
		if m.Attr == "" {
			return ""
		}
		if val, ok := sel.Attr(m.Attr); ok {
			return strings.TrimSpace(val)
		}
		return ""
	default:
		return ""
	}
}

// compileOptionalRegex compiles pattern into a regexp.Regexp.
//
// If pattern is empty, it returns (nil, nil). Errors are annotated with
// jsonPath to make debugging mapping configurations straightforward.
func compileOptionalRegex(pattern, jsonPath string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex for json_path=%q: %w", jsonPath, err)
	}
	return re, nil
}

// applyRegexFilter applies an optional regex post-processing step to value.
//
// Behavior:
//   - If re is nil, it returns value unchanged.
//   - If re does not match, it returns "" (caller should omit the field).
//   - If re matches and contains capture groups, group 1 is returned.
//   - If re matches with no capture groups, the full match is returned.
func applyRegexFilter(value string, re *regexp.Regexp) string {
	if value == "" || re == nil {
		return value
	}

	sm := re.FindStringSubmatch(value)
	if len(sm) == 0 {
		return ""
	}
	if len(sm) > 1 {
		return sm[1]
	}
	return sm[0]
}
