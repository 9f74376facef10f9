package lawdit

import (
	"regexp"
	"strings"
	"unicode"
)

// BlockKind identifies a markdown block.
type BlockKind int

// BlockKind constants.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
	BlockCode
)

// Block is a top-level markdown element. Deliverable writers map blocks to
// their own paragraph styles.
type Block struct {
	Kind BlockKind
	// Level is the heading level (1-6) or the bullet nesting depth (0-based).
	Level int
	Text  string
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	bulletRe  = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+[.)])\s+(.+)$`)
	inlineRe  = regexp.MustCompile("\\*\\*(.+?)\\*\\*|__(.+?)__|`([^`]+)`|\\[([^\\]]+)\\]\\([^)]*\\)")
)

// ParseMarkdown splits agent-written markdown into blocks. Consecutive text
// lines are joined into one paragraph. Fenced code is kept verbatim.
func ParseMarkdown(markdown string) []Block {
	var blocks []Block
	var para []string
	var code []string
	inCode := false

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: strings.Join(para, " ")})
			para = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCode {
				blocks = append(blocks, Block{Kind: BlockCode, Text: strings.Join(code, "\n")})
				code = nil
			} else {
				flush()
			}
			inCode = !inCode
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case headingRe.MatchString(trimmed):
			flush()
			m := headingRe.FindStringSubmatch(trimmed)
			blocks = append(blocks, Block{Kind: BlockHeading, Level: len(m[1]), Text: StripInline(m[2])})
		case bulletRe.MatchString(line):
			flush()
			m := bulletRe.FindStringSubmatch(line)
			blocks = append(blocks, Block{Kind: BlockBullet, Level: indentDepth(m[1]), Text: StripInline(m[2])})
		case isRule(trimmed):
			flush()
		default:
			para = append(para, StripInline(trimmed))
		}
	}
	if inCode && len(code) > 0 {
		blocks = append(blocks, Block{Kind: BlockCode, Text: strings.Join(code, "\n")})
	}
	flush()
	return blocks
}

// StripInline removes emphasis, inline code and link markup, keeping the text.
func StripInline(s string) string {
	return inlineRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := inlineRe.FindStringSubmatch(m)
		for _, g := range sub[1:] {
			if g != "" {
				return g
			}
		}
		return m
	})
}

func indentDepth(indent string) int {
	n := 0
	for _, r := range indent {
		if r == '\t' {
			n += 2
		} else {
			n++
		}
	}
	return n / 2
}

func isRule(s string) bool {
	if len(s) < 3 {
		return false
	}
	return strings.Trim(s, "-") == "" || strings.Trim(s, "*") == "" || strings.Trim(s, "_") == ""
}

// Slugify turns a name into a lowercase, hyphen-separated identifier safe for
// directory names. Returns "document" when nothing usable remains.
func Slugify(name string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}

	result := strings.TrimSuffix(sb.String(), "-")
	if result == "" {
		return "document"
	}
	return result
}
