package main

import _ "embed"

// embeddedConfig holds the YAML configuration embedded at build time.
// Packagers overwrite embed_config.yaml to ship different defaults; the
// user's config file and environment still take precedence.
//
//go:embed embed_config.yaml
var embeddedConfig []byte
