package serverapi

// Text is an identifier sent either as a string or as a number.
// Both decode to their textual form, null to the empty Text
type Text string

// Label is an optional descriptive field. Null, empty strings, false
// and zero decode to the empty Label, which renders as a placeholder
type Label string

// Rate is a per second amount. It decodes from a number, a numeric
// string or null (zero)
type Rate float64

type AnimalData struct {
	DisplayName Label `json:"displayName"`
	Value       Rate  `json:"value"`
	Generation  Label `json:"generation"`
	Rarity      Label `json:"rarity"`
}

// A game server detected by the API
type ServerRecord struct {
	GameInstanceId Text       `json:"gameInstanceId"`
	PlaceId        Text       `json:"placeId"`
	AnimalData     AnimalData `json:"animalData"`
}

type ActiveServers struct {
	Success       bool           `json:"success"`
	ActiveServers []ServerRecord `json:"activeServers"`
}

const placeholder = "N/A"

// The label itself, or "N/A" when it is empty
func (label Label) OrNA() string {
	if label == "" {
		return placeholder
	}
	return string(label)
}
