package dtobj

// Presence is the bit flag recorded for each property supplied at
// construction.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Property appeared in the input.
	PresenceWasNull                      // Supplied value was null.
)

// PresenceMap maps property JSON Pointers (for example: /email) to Presence
// flags. Declared properties that were not supplied have no entry.
type PresenceMap map[string]Presence

// Seen reports whether the property was supplied.
func (pm PresenceMap) Seen(property string) bool { return pm[pointer(property)]&PresenceSeen != 0 }

// WasNull reports whether the property was supplied as an explicit null.
func (pm PresenceMap) WasNull(property string) bool {
	return pm[pointer(property)]&PresenceWasNull != 0
}
