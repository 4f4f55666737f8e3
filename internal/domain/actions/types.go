package actions

import (
	"errors"
	"strings"
)

// Tag identifies a logical action a remote device can request.
type Tag string

const (
	TagOffice  Tag = "office"
	TagWeb     Tag = "web"
	TagMedia   Tag = "media"
	TagCustom  Tag = "custom"
	TagCommand Tag = "command"
)

// DefaultURL is opened when a web action carries no URL.
const DefaultURL = "https://www.google.com"

// DispatchTags are the tags accepted by the generic execute endpoint, in display order.
var DispatchTags = []Tag{TagOffice, TagWeb, TagMedia}

// String returns the wire form of the tag
func (t Tag) String() string { return string(t) }

// ParseDispatchTag resolves a generic execute request's action name.
func ParseDispatchTag(name string) (Tag, bool) {
	for _, tag := range DispatchTags {
		if string(tag) == name {
			return tag, true
		}
	}
	return "", false
}

// DispatchTagNames returns DispatchTags as plain strings.
func DispatchTagNames() []string {
	names := make([]string, len(DispatchTags))
	for i, tag := range DispatchTags {
		names[i] = string(tag)
	}
	return names
}

// Via records how an action reached the OS.
type Via string

const (
	ViaPath   Via = "path"   // a candidate install location was launched
	ViaShell  Via = "shell"  // the shell fallback was issued
	ViaDirect Via = "direct" // caller-supplied path or command
	ViaNone   Via = "none"   // nothing was launched
)

// Outcome is the result of one execution attempt.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Action  Tag    `json:"action"`
	URL     string `json:"url,omitempty"`

	// Via and Path describe the resolution for logs and metrics; they are not serialized.
	Via  Via    `json:"-"`
	Path string `json:"-"`
}

var (
	ErrNotFound      = errors.New("file not found")
	ErrEmptyCommand  = errors.New("empty command")
	ErrTimeout       = errors.New("command timed out")
	ErrNoShell       = errors.New("no shell configured")
	ErrUnknownAction = errors.New("unknown action")
)

func failure(tag Tag, via Via, err error) Outcome {
	return Outcome{
		Success: false,
		Message: "Error: " + strings.TrimSpace(err.Error()),
		Action:  tag,
		Via:     via,
	}
}
