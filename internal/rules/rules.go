// Package rules implements window rules matched by application id. A rule
// can force a value for the lifetime of the window or apply it only when
// the window is first placed.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
)

type Policy string

const (
	// PolicyInitially applies the value when the window is placed and lets
	// it change afterwards.
	PolicyInitially Policy = "initially"
	// PolicyForce applies the value to every check.
	PolicyForce Policy = "force"
)

type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchRegex     MatchKind = "regex"
)

type Setting[T any] struct {
	Value  T      `json:"value" yaml:"value"`
	Policy Policy `json:"policy" yaml:"policy"`
}

func (s *Setting[T]) check(v T, init bool) (T, bool) {
	if s == nil {
		return v, false
	}
	switch s.Policy {
	case PolicyForce:
		return s.Value, true
	case PolicyInitially:
		if init {
			return s.Value, true
		}
	}
	return v, false
}

type Maximize struct {
	Horizontal bool `json:"horizontal" yaml:"horizontal"`
	Vertical   bool `json:"vertical" yaml:"vertical"`
}

type Rule struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	AppID       string               `json:"app_id" yaml:"app_id"`
	Match       MatchKind            `json:"match,omitempty" yaml:"match,omitempty"`
	Position    *Setting[geom.Point] `json:"position,omitempty" yaml:"position,omitempty"`
	Size        *Setting[geom.Size]  `json:"size,omitempty" yaml:"size,omitempty"`
	Maximize    *Setting[Maximize]   `json:"maximize,omitempty" yaml:"maximize,omitempty"`
	FullScreen  *Setting[bool]       `json:"fullscreen,omitempty" yaml:"fullscreen,omitempty"`
	NoBorder    *Setting[bool]       `json:"no_border,omitempty" yaml:"no_border,omitempty"`
}

// Book is a compiled list of rules.
type Book struct {
	rules []compiled
}

type compiled struct {
	Rule
	re *regexp.Regexp
}

func NewBook(rules []Rule) (*Book, error) {
	b := &Book{}
	for i, r := range rules {
		c := compiled{Rule: r}
		switch r.Match {
		case "", MatchExact, MatchSubstring:
		case MatchRegex:
			re, err := regexp.Compile(r.AppID)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			c.re = re
		default:
			return nil, fmt.Errorf("rule %d: invalid match kind %q", i, r.Match)
		}
		b.rules = append(b.rules, c)
	}
	return b, nil
}

func (c compiled) matches(appID string) bool {
	switch c.Match {
	case MatchSubstring:
		return strings.Contains(appID, c.AppID)
	case MatchRegex:
		return c.re.MatchString(appID)
	default:
		return appID == c.AppID
	}
}

// Find returns the rules matching appID in book order.
func (b *Book) Find(appID string) Set {
	if b == nil {
		return nil
	}
	var set Set
	for i := range b.rules {
		if b.rules[i].matches(appID) {
			set = append(set, &b.rules[i].Rule)
		}
	}
	return set
}

func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.rules)
}

// Set is the rules matching one window. For every property the first rule
// that sets it wins. The zero Set changes nothing.
type Set []*Rule

func (s Set) CheckMaximize(horizontal, vertical, init bool) (bool, bool) {
	m := checkFirst(s, func(r *Rule) *Setting[Maximize] { return r.Maximize }, Maximize{Horizontal: horizontal, Vertical: vertical}, init)
	return m.Horizontal, m.Vertical
}

func (s Set) CheckFullScreen(fullScreen, init bool) bool {
	return checkFirst(s, func(r *Rule) *Setting[bool] { return r.FullScreen }, fullScreen, init)
}

func (s Set) CheckNoBorder(noBorder, init bool) bool {
	return checkFirst(s, func(r *Rule) *Setting[bool] { return r.NoBorder }, noBorder, init)
}

func (s Set) CheckPosition(pos geom.Point, init bool) geom.Point {
	return checkFirst(s, func(r *Rule) *Setting[geom.Point] { return r.Position }, pos, init)
}

func (s Set) CheckSize(size geom.Size, init bool) geom.Size {
	return checkFirst(s, func(r *Rule) *Setting[geom.Size] { return r.Size }, size, init)
}

// checkFirst consults only the first rule that has the property set.
func checkFirst[T any](s Set, field func(*Rule) *Setting[T], v T, init bool) T {
	for _, r := range s {
		setting := field(r)
		if setting == nil {
			continue
		}
		v, _ = setting.check(v, init)
		return v
	}
	return v
}
