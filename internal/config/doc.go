// Package config provides configuration management for AJAXSpider.
//
// Configuration comes from three sources, in increasing precedence:
//  1. Defaults defined in this package
//  2. The optional .ajaxspider YAML file (per-site overrides)
//  3. CLI flags
//
// The Config struct is populated once during CLI parsing, validated with
// Validate, and passed through the application by dependency injection.
// No global configuration state exists.
package config
