package filter

import (
	"fmt"
	"regexp"
	"regexp/syntax"
)

// regexEngine wraps the compiled pattern used by RegexValue. No repo in the
// retrieval pack reaches for a third-party regex engine — the teacher's own
// internal/flex/transforms.go uses the standard library, as does every
// other_examples/ file that does regex work — so this module follows suit.
// regexp.CompilePOSIX gives POSIX-ERE, leftmost-longest semantics, which is
// the dialect spec.md §4.2 calls for. POSIX syntax has no inline flags, so
// a case-insensitive pattern is parsed as POSIX ERE with case folding and
// its equivalent Perl-syntax form is compiled with leftmost-longest
// matching.
type regexEngine struct {
	re *regexp.Regexp
}

// compileRegex compiles pattern once, at tree-construction time (spec.md
// §4.1, §7 item 3: a compile failure is a parse-time error).
func compileRegex(pattern string, caseInsensitive bool) (regexEngine, error) {
	if caseInsensitive {
		sre, err := syntax.Parse(pattern, syntax.POSIX|syntax.FoldCase)
		if err != nil {
			return regexEngine{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		re, err := regexp.Compile(sre.String())
		if err != nil {
			return regexEngine{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		re.Longest()
		return regexEngine{re: re}, nil
	}
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return regexEngine{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return regexEngine{re: re}, nil
}

// MatchString performs an unanchored search, not a full-string match.
func (e regexEngine) MatchString(s string) bool {
	if e.re == nil {
		return false
	}
	return e.re.MatchString(s)
}

// NewRegexValue compiles pattern and returns a ready-to-evaluate
// RegexValue node. Used by internal/lang when building the tree.
func NewRegexValue(pattern string, caseInsensitive bool) (*RegexValue, error) {
	re, err := compileRegex(pattern, caseInsensitive)
	if err != nil {
		return nil, err
	}
	return &RegexValue{Pattern: pattern, CaseInsensitive: caseInsensitive, re: re}, nil
}
