// Package output renders walk results as plain text, tables, JSON or YAML.
//
// Text output is meant for pipes: one line per item and no header. The
// other formats carry a header identifying the run.
package output
