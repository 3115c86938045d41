package modules

import (
	"encoding/json"
)

type Result struct {
	Platform Platform `json:"platform"`
	Module   string   `json:"module"`
	Filename string
	Data     interface{} `json:"data"`
}

// CSVMarshaler is implemented by result data that can be rendered as CSV.
// The CSV output provider skips results whose data does not implement it.
type CSVMarshaler interface {
	CSVHeader() []string
	CSVRows() [][]string
}

func (r *Result) String() string {
	d, _ := json.MarshalIndent(r.Data, "", "  ")
	return string(d)
}
