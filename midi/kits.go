package midi

import "strings"

// Voices names the 16 drum slots every kit maps, in slot order.
var Voices = [16]string{
	"kick", "snare", "closedhh", "openhh",
	"lowtom", "midtom", "hightom", "crash",
	"ride", "clap", "rimshot", "cowbell",
	"clave", "maracas", "lowconga", "highconga",
}

// DrumKit maps 16 drum slots to MIDI notes
type DrumKit struct {
	Name  string
	Notes [16]uint8
}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name:  "General MIDI",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"rd8": {
		// snare is 40 on the RD-8, not 38
		Name:  "Behringer RD-8",
		Notes: [16]uint8{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
	"er1": {
		// slots past clap are placeholders, the ER-1 has nothing there
		Name:  "Korg ER-1",
		Notes: [16]uint8{36, 38, 42, 46, 40, 41, 43, 49, 45, 39, 37, 56, 75, 70, 64, 63},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// Voice returns the note for a voice name such as "snare".
func (k DrumKit) Voice(name string) (uint8, bool) {
	name = strings.ToLower(name)
	for i, v := range Voices {
		if v == name {
			return k.Notes[i], true
		}
	}
	return 0, false
}
