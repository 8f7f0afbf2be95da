package instagram

import (
	"encoding/json"
	"strings"
)

// captionAccessor probes one known location for caption text inside a media
// object. Different response variants (locale, doc-id schema version)
// populate different subsets of these fields, so each accessor tolerates
// absent or differently-typed values and reports ok only for a non-empty
// string.
type captionAccessor struct {
	name string
	get  func(media map[string]any) (string, bool)
}

// Ordered by reliability: the edge list carries the real caption, the flat
// fields show up on older or reduced schema variants.
var captionAccessors = []captionAccessor{
	{name: "edge_media_to_caption", get: edgeCaption},
	{name: "caption", get: stringField("caption")},
	{name: "title", get: stringField("title")},
	{name: "accessibility_caption", get: stringField("accessibility_caption")},
}

// ParseCaption extracts a caption from a GraphQL response payload. The
// media key has been renamed across API versions, so both known spellings
// are tried. Returns false when the payload holds no media object or no
// candidate field contains a non-empty string; neither case is an error.
func ParseCaption(payload []byte) (string, bool) {
	var root map[string]any
	if err := json.Unmarshal(payload, &root); err != nil {
		return "", false
	}
	return parseCaptionValue(root)
}

func parseCaptionValue(root map[string]any) (string, bool) {
	data, _ := root["data"].(map[string]any)
	if data == nil {
		return "", false
	}

	media, _ := data["xdt_shortcode_media"].(map[string]any)
	if media == nil {
		media, _ = data["shortcode_media"].(map[string]any)
	}
	if media == nil {
		return "", false
	}

	for _, a := range captionAccessors {
		if text, ok := a.get(media); ok {
			return text, true
		}
	}
	return "", false
}

// edgeCaption walks edge_media_to_caption.edges[0].node.text.
func edgeCaption(media map[string]any) (string, bool) {
	container, _ := media["edge_media_to_caption"].(map[string]any)
	if container == nil {
		return "", false
	}
	edges, _ := container["edges"].([]any)
	if len(edges) == 0 {
		return "", false
	}
	first, _ := edges[0].(map[string]any)
	if first == nil {
		return "", false
	}
	node, _ := first["node"].(map[string]any)
	if node == nil {
		return "", false
	}
	text, _ := node["text"].(string)
	return nonEmpty(text)
}

// stringField builds an accessor for a flat string field on the media object.
func stringField(key string) func(map[string]any) (string, bool) {
	return func(media map[string]any) (string, bool) {
		s, _ := media[key].(string)
		return nonEmpty(s)
	}
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
