// Package data holds the dataset compiled into the binary.
package data

import _ "embed"

// Films is the default film dataset as a JSON array of records.
//
//go:embed films.json
var Films []byte
