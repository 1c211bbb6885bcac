// Package ui decides whether fswalk talks to a human and draws progress
// for long walks when it does.
package ui
