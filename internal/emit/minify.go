package emit

import "strings"

// MinifyMargin strips the common left margin from a source fragment: the
// minimum leading-whitespace count over all non-blank lines is removed from
// every line, then surrounding blank lines are trimmed. Tokens are never
// rewritten.
func MinifyMargin(s string) string {
	lines := strings.Split(s, "\n")

	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := leadingWhitespace(line)
		if margin < 0 || n < margin {
			margin = n
		}
	}
	if margin < 0 {
		return ""
	}

	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}

	start := 0
	end := len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func leadingWhitespace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}
