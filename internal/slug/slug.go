// Package slug 由标题生成 URL 安全的标识
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// 标题中没有可用字符时使用
	Fallback = "untitled"
	// 与 slug 字段宽度一致
	MaxLength = 255
	// Allocate 最多尝试的后缀数
	MaxAttempts = 1000
)

// ErrExhausted is returned when Allocate finds no free candidate.
var ErrExhausted = errors.New("slug: no free candidate")

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	stripMarks = runes.Remove(runes.In(unicode.Mn))
)

// Slugify 去掉重音并转小写，其余字符连续出现时合并为一个连字符，去掉首尾连字符
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, stripMarks, norm.NFC), title)
	if err != nil {
		folded = title
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

// Valid 是否已经是 slug 格式
func Valid(s string) bool {
	return len(s) <= MaxLength && validSlug.MatchString(s)
}

// Allocate base 未被占用时直接返回，否则依次尝试 base-2、base-3 等
func Allocate(exists func(candidate string) (bool, error), base string) (string, error) {
	if base == "" {
		base = Fallback
	}

	for i := 1; i <= MaxAttempts; i++ {
		candidate := base
		if i > 1 {
			suffix := fmt.Sprintf("-%d", i)
			trimmed := base
			if len(trimmed)+len(suffix) > MaxLength {
				trimmed = strings.TrimRight(trimmed[:MaxLength-len(suffix)], "-")
			}
			candidate = trimmed + suffix
		}

		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("slug: check %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
