// Package checksum computes content digests for files found during a walk.
//
// Calculators stream their input, so files of any size can be hashed
// without loading them into memory. XXHash is the fast default for change
// detection; SHA256 is available when a cryptographic digest is needed.
package checksum
