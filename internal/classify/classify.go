package classify

import (
	"fmt"
	"regexp"
	"strings"

	"courier/internal/manifest"
)

// Kind is the media category a work item resolves to.
type Kind string

const (
	KindVideo       Kind = "video"
	KindDocument    Kind = "document"
	KindUnsupported Kind = "unsupported"
)

// Plan is the classified form of a work item.
type Plan struct {
	Item     manifest.Item
	Kind     Kind
	Filename string
	MIMEType string
	Peer     PeerRef
}

// Caption returns the message caption attached to the delivered file.
func (p Plan) Caption() string {
	return fmt.Sprintf("%s %s", strings.ToUpper(string(p.Kind)), p.Item.Title)
}

// RecordName returns the display name sent to the primary store: the raw
// title with the kind's extension appended unless already present.
func (p Plan) RecordName() string {
	ext := extensionFor(p.Kind)
	if ext == "" || strings.HasSuffix(p.Item.Title, ext) {
		return p.Item.Title
	}
	return p.Item.Title + ext
}

// Hosting domains that are policy-excluded regardless of any type hint.
var excludedHosts = []string{"youtube.com", "youtu.be"}

var (
	stripPattern    = regexp.MustCompile(`[^\w\s-]`)
	collapsePattern = regexp.MustCompile(`[-\s]+`)
)

// Classify resolves a work item into a transfer plan.
func Classify(item manifest.Item) Plan {
	kind := kindOf(item)
	return Plan{
		Item:     item,
		Kind:     kind,
		Filename: Filename(item.Title, kind),
		MIMEType: mimeFor(kind),
		Peer:     ParsePeer(item.Destination()),
	}
}

func kindOf(item manifest.Item) Kind {
	url := strings.ToLower(strings.TrimSpace(item.URL))
	for _, host := range excludedHosts {
		if strings.Contains(url, host) {
			return KindUnsupported
		}
	}

	switch strings.ToLower(strings.TrimSpace(item.Type)) {
	case "video":
		return KindVideo
	case "document", "pdf":
		return KindDocument
	}

	if strings.HasSuffix(url, ".pdf") {
		return KindDocument
	}
	return KindVideo
}

// Filename derives the working filename from a title: lowercase, word and
// hyphen runes only, whitespace/hyphen runs collapsed to a single
// underscore, extension appended by kind. A title of only special
// characters yields just the extension.
func Filename(title string, kind Kind) string {
	stem := stripPattern.ReplaceAllString(title, "")
	stem = strings.ToLower(strings.TrimSpace(stem))
	stem = collapsePattern.ReplaceAllString(stem, "_")
	return stem + extensionFor(kind)
}

func extensionFor(kind Kind) string {
	switch kind {
	case KindVideo:
		return ".mp4"
	case KindDocument:
		return ".pdf"
	default:
		return ""
	}
}

func mimeFor(kind Kind) string {
	switch kind {
	case KindVideo:
		return "video/mp4"
	case KindDocument:
		return "application/pdf"
	default:
		return ""
	}
}
