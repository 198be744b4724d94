package classify

import (
	"strconv"
	"strings"
)

// PeerRef is the resolved delivery destination: either a symbolic alias
// (username, "me") or a numeric channel identifier. The string form the
// manifest carries is inspected exactly once, here.
type PeerRef struct {
	alias   string
	channel int64
}

// Alias builds a symbolic peer reference.
func Alias(name string) PeerRef {
	return PeerRef{alias: name}
}

// Channel builds a numeric channel peer reference.
func Channel(id int64) PeerRef {
	return PeerRef{channel: id}
}

// ParsePeer resolves a raw destination string. Strings carrying the -100
// channel-ID prefix become numeric references; everything else stays an
// alias.
func ParsePeer(raw string) PeerRef {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "-100") {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Channel(id)
		}
	}
	return Alias(strings.TrimPrefix(raw, "@"))
}

// IsChannel reports whether the reference is a numeric channel ID.
func (p PeerRef) IsChannel() bool {
	return p.channel != 0
}

// ChannelID returns the numeric channel identifier, zero for aliases.
func (p PeerRef) ChannelID() int64 {
	return p.channel
}

// AliasName returns the symbolic alias, empty for channel references.
func (p PeerRef) AliasName() string {
	return p.alias
}

// String renders the reference for logs.
func (p PeerRef) String() string {
	if p.IsChannel() {
		return strconv.FormatInt(p.channel, 10)
	}
	return p.alias
}
