package serverapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrUnavailable = errors.New("api not available or without active servers")

// Decode a response of the active servers route.
// A payload that does not report success, or that has no list of
// active servers, results in ErrUnavailable
func UnmarshalActiveServers(data []byte) ([]ServerRecord, error) {

	var raw ActiveServers
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("active servers payload is not correctly formatted: %w", err)
	}
	if !raw.Success || raw.ActiveServers == nil {
		return nil, ErrUnavailable
	}
	return raw.ActiveServers, nil
}

// Textual form of a JSON scalar, and whether the scalar is one of
// null, "", false or 0. Objects and arrays have no textual form
func decodeScalar(data []byte) (string, bool, error) {

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return "", false, err
	}
	switch v := value.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, v == "", nil
	case bool:
		return strconv.FormatBool(v), !v, nil
	case float64:
		raw := strings.TrimSpace(string(data))
		if isInteger(raw) {
			// Keep large identifiers exactly as sent
			return raw, v == 0, nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), v == 0, nil
	default:
		return "", false, fmt.Errorf("cannot decode %s as a scalar", string(data))
	}
}

func isInteger(raw string) bool {
	digits := strings.TrimPrefix(raw, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (text *Text) UnmarshalJSON(data []byte) error {
	decoded, _, err := decodeScalar(data)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring identifier that is not a scalar")
		*text = ""
		return nil
	}
	*text = Text(decoded)
	return nil
}

func (label *Label) UnmarshalJSON(data []byte) error {
	decoded, falsy, err := decodeScalar(data)
	if err != nil || falsy {
		*label = ""
		return nil
	}
	*label = Label(decoded)
	return nil
}

// A value that is not numeric counts as zero, so that one bad record
// does not hide the rest of the payload
func (rate *Rate) UnmarshalJSON(data []byte) error {

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*rate = 0
	switch v := value.(type) {
	case nil:
	case float64:
		*rate = Rate(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			log.Warn().Str("value", v).Msg("Rate is not a number, using 0")
			return nil
		}
		*rate = Rate(parsed)
	default:
		log.Warn().Str("value", string(data)).Msg("Rate is not a number, using 0")
	}
	return nil
}
