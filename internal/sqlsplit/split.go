package sqlsplit

import "strings"

// Split turns a raw SQL script into an ordered list of executable statements.
// Lines whose trimmed form starts with "--" are dropped, the remaining text is
// split on ";", and empty pieces are discarded.
//
// This is a line-oriented splitter, not a SQL lexer: a ";" inside a string
// literal or an inline "--" comment will break it. Migration authors must not
// embed statement terminators in literal values or mid-line comments.
func Split(sql string) []string {
	lines := strings.Split(sql, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	pieces := strings.Split(strings.Join(kept, "\n"), ";")
	stmts := make([]string, 0, len(pieces))
	for _, p := range pieces {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts
}
