package stream

import "strings"

// Descriptor is a resolved, directly embeddable stream for one match.
type Descriptor struct {
	ID       string
	StreamNo int
	Language string
	HD       bool
	EmbedURL string
	Source   string
	Viewers  int
}

// Playable reports whether the descriptor carries an embed URL. Providers
// occasionally return placeholder rows without one.
func (d Descriptor) Playable() bool {
	return strings.TrimSpace(d.EmbedURL) != ""
}
