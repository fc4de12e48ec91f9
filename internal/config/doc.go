// Package config provides configuration structures and utilities for hoaregistry.
// It defines the run options populated from CLI flags, their defaults and
// validation, and the small settings file that remembers the last used
// limit, search term, wait time and save directory between runs.
package config
