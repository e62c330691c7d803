// Package configs provides the embedded manifest template for setupcheck.
//
// The template is embedded at build time so that `setupcheck config example`
// works from any installed binary. Edit manifest.example.yaml and rebuild to
// change it.
package configs

import _ "embed"

// ManifestTemplate is an annotated example of .setupcheck.yaml.
//
//go:embed manifest.example.yaml
var ManifestTemplate string
