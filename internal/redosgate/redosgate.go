// Package redosgate inspects a caller-supplied regular expression before it
// is compiled. Go's RE2-derived regexp engine never backtracks, so the
// catastrophic-backtracking vulnerability class this gate screens for
// cannot actually blow up the process the way it can under a backtracking
// engine. The gate exists anyway to preserve the contract callers depend
// on: a narrow, structurally pathological pattern is rejected up front with
// a clear message rather than silently accepted and compiled at a cost the
// caller did not expect from a "safe" regex endpoint.
package redosgate

import (
	"regexp"
	"regexp/syntax"

	"github.com/j0hanz/fscontext/internal/errs"
)

// maxBoundedRepeat rejects bounded repetition counts above this threshold;
// RE2 compiles them into a correspondingly large automaton even though it
// never backtracks, so an absurd bound is still worth rejecting early.
const maxBoundedRepeat = 1000

// Options configures how the caller's literal/pattern is turned into a
// compiled regexp.
type Options struct {
	IsLiteral     bool
	WholeWord     bool
	CaseSensitive bool
}

// Compile runs the pattern through the safety gate and, if it passes,
// compiles it per Options. isLiteral escapes all metacharacters first;
// wholeWord wraps the (possibly escaped) pattern in \b...\b; case
// insensitivity is applied as a compile flag, never as a pattern rewrite.
func Compile(pattern string, opt Options) (*regexp.Regexp, error) {
	body := pattern
	if opt.IsLiteral {
		body = regexp.QuoteMeta(pattern)
	} else if err := checkSafe(pattern); err != nil {
		return nil, err
	}

	if opt.WholeWord {
		body = `\b(?:` + body + `)\b`
	}
	if !opt.CaseSensitive {
		body = `(?i)` + body
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidPattern, pattern, "regex failed to compile: "+err.Error(), err)
	}
	return re, nil
}

// checkSafe parses the pattern's AST via regexp/syntax and rejects
// structures that a standard safe-regex analyzer flags as catastrophic
// under a backtracking engine: nested quantifiers, a quantifier applied to
// a group that itself contains a quantifier, and very high bounded
// repetition counts.
func checkSafe(pattern string) error {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return errs.Wrap(errs.InvalidPattern, pattern, "regex failed to parse: "+err.Error(), err)
	}
	if hasNestedQuantifier(re) {
		return errs.New(errs.InvalidPattern, pattern, "pattern rejected: nested quantifiers risk catastrophic backtracking (ReDoS)")
	}
	if bound := maxRepeatBound(re); bound > maxBoundedRepeat {
		return errs.New(errs.InvalidPattern, pattern, "pattern rejected: bounded repetition count is unreasonably large (ReDoS)")
	}
	return nil
}

// hasNestedQuantifier walks the parsed AST looking for a repeat operator
// (Star, Plus, Quest, Repeat) whose operand contains another repeat
// operator at any depth — the classic (a+)+ / (a*)* shape as well as a
// quantified group such as (ab+)+ — and recurses into every subexpression
// regardless of nesting so the pathological group can appear anywhere in
// the pattern.
func hasNestedQuantifier(re *syntax.Regexp) bool {
	if isQuantifierOp(re.Op) && len(re.Sub) == 1 && containsQuantifier(re.Sub[0]) {
		return true
	}
	for _, sub := range re.Sub {
		if hasNestedQuantifier(sub) {
			return true
		}
	}
	return false
}

// containsQuantifier reports whether re or any subexpression beneath it is
// a repeat operator.
func containsQuantifier(re *syntax.Regexp) bool {
	if isQuantifierOp(re.Op) {
		return true
	}
	for _, sub := range re.Sub {
		if containsQuantifier(sub) {
			return true
		}
	}
	return false
}

func isQuantifierOp(op syntax.Op) bool {
	switch op {
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		return true
	default:
		return false
	}
}

func maxRepeatBound(re *syntax.Regexp) int {
	max := 0
	if re.Op == syntax.OpRepeat {
		if re.Max > max {
			max = re.Max
		}
	}
	for _, sub := range re.Sub {
		if m := maxRepeatBound(sub); m > max {
			max = m
		}
	}
	return max
}
