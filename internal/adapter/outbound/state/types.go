package state

import "time"

// fileVersion is written into every state file.
const fileVersion = "1"

// fileContents is the on-disk layout of the console state file.
type fileContents struct {
	Version   string            `json:"version"`
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}
