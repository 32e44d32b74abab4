package conformance

import (
	"encoding/json"
	"fmt"

	"github.com/boa-dev/ghpages-tools/pkg/jsonio"
)

type summaryJSON struct {
	Commit        *string   `json:"c"`
	Test262Commit *string   `json:"u"`
	Aggregate     *Counters `json:"a"`
}

// UnmarshalJSON implements json.Unmarshaler. Fields other than c, u and a are
// dropped, which is how older history records get projected.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var aux summaryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Commit == nil:
		return fmt.Errorf("history record is missing key %q", "c")
	case aux.Test262Commit == nil:
		return fmt.Errorf("history record is missing key %q", "u")
	case aux.Aggregate == nil:
		return fmt.Errorf("history record is missing key %q", "a")
	}

	*s = Summary{
		Commit:        *aux.Commit,
		Test262Commit: *aux.Test262Commit,
		Aggregate:     *aux.Aggregate,
	}
	return nil
}

// LoadHistory reads a results.json file.
func LoadHistory(path string) ([]Summary, error) {
	var history []Summary
	if err := jsonio.Read(path, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ReplaceLast returns history with its last record replaced by latest. An
// empty history gets latest as its only record.
func ReplaceLast(history []Summary, latest Summary) []Summary {
	out := make([]Summary, len(history), len(history)+1)
	copy(out, history)
	if len(out) == 0 {
		return append(out, latest)
	}
	out[len(out)-1] = latest
	return out
}
