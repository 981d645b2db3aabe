// Package config provides the configuration of panelkit: zoom behavior,
// image decoding, report output and the export archive. Values come from
// defaults, then the optional .panelkit YAML file, then CLI flags.
package config
