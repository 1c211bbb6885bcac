// Package usage totals the apparent size of file hierarchies, like du.
//
// Sizes are accumulated in the Number slot of each directory entry as its
// children are visited and reported when the directory is visited in
// post-order. Files with several hard links are counted once.
package usage
