package middleware

import (
	"strconv"
	"strings"
)

// ACL answers whether a chat belongs to the bot administrators. Admin
// commands (/sendnow, /stats and the log commands) are gated on it.
type ACL struct{ allowed map[int64]struct{} }

// NewACL creates an ACL from a list of chat IDs.
func NewACL(ids []int64) *ACL {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &ACL{allowed: m}
}

// IsAllowed reports whether the chat is an administrator.
func (a *ACL) IsAllowed(id int64) bool { _, ok := a.allowed[id]; return ok }

// ParseAllowedIDs parses a comma or whitespace separated list of chat
// IDs. Entries that are not valid integers are skipped.
func ParseAllowedIDs(s string) []int64 {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\t' || r == ' '
	})
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
