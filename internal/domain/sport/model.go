package sport

import "strings"

// Sport is one category in the streaming directory (football, basketball, ...).
type Sport struct {
	ID   string
	Name string
}

// NameMap indexes resolved display names by category id.
func NameMap(sports []Sport) map[string]string {
	out := make(map[string]string, len(sports))
	for _, item := range sports {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		out[id] = strings.TrimSpace(item.Name)
	}
	return out
}
