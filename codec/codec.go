// Package codec centralizes snapshot payload encoding.
//
// Codec selection is a breaking-change boundary: snapshots written by one
// codec may no longer decode if the codec is swapped out, which is why
// snapshot headers store the codec name.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
//
// Snapshots are self-describing: they store the codec name in their header,
// and the reader selects the codec via ByName.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
