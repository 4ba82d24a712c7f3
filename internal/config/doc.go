// Package config provides configuration structures and utilities for
// doccano2spacy: command-line settings, the optional YAML file with
// per-input overrides, and the rules that merge them for one input file.
package config
