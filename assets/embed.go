// Package assets holds files embedded into the binary.
package assets

import (
	_ "embed"
)

// SampleConfig is the commented sample configuration written by
// "webcamrec config init".
//
//go:embed sample_config.toml
var SampleConfig []byte
