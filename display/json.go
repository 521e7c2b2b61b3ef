package display

import (
	"encoding/json"
	"io"
	"os"
)

// MarshalJSON marshals v with two-space indentation.
// CIPROBE_JSON_COMPACT=1 selects single-line output for log collectors.
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv("CIPROBE_JSON_COMPACT") == "1" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON marshals v with MarshalJSON and writes it to w followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
