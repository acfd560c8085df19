package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// FlexTime accepts an RFC 3339 string or epoch milliseconds (number or
// numeric string) and always marshals to RFC 3339. Browser clients send
// Date.now() values as often as ISO strings.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON handles flexible time parsing from JSON.
func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			ft.Time = t
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			ft.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		return fmt.Errorf("cannot parse time string: %s", s)
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		ft.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexTime", string(data))
}

// MarshalJSON outputs time in RFC 3339 format.
func (ft FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ft.Format(time.RFC3339Nano))
}

// Schema describes both accepted encodings to huma.
func (FlexTime) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "RFC 3339 timestamp or epoch milliseconds",
		OneOf: []*huma.Schema{
			{Type: huma.TypeString},
			{Type: huma.TypeNumber},
		},
	}
}
