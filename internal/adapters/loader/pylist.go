package loader

import "strings"

// parseList reads a python list literal such as "['Swimming', 'Diving']".
// Anything that is not a bracketed list of quoted strings, including a bare
// value, is empty.
func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) < 2 || !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	body := s[1 : len(s)-1]

	var (
		out   []string
		cur   strings.Builder
		quote rune
		esc   bool
		item  bool
	)
	for _, r := range body {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case quote != 0 && r == '\\':
			esc = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			if item {
				return nil
			}
			quote = r
			item = true
		case r == ',':
			if !item {
				return nil
			}
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			item = false
		case r == ' ' || r == '\t':
		default:
			return nil
		}
	}
	if quote != 0 || esc {
		return nil
	}
	if item {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}
