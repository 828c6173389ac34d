// assets/embed.go
//
// Static resources compiled into the binary.
//   - dictionary.json: Albanian dictionary entries; each has at least a
//     display "term". The words package extracts the playable pool from it.

package assets

import (
	"embed"
)

//go:embed dictionary.json
var FS embed.FS

// Dictionary returns the raw embedded dictionary resource.
func Dictionary() ([]byte, error) {
	return FS.ReadFile("dictionary.json")
}
