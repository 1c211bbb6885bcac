package fts

import "strings"

// ByName orders entries by name, byte-wise.
func ByName(a, b *Entry) int {
	return strings.Compare(a.name, b.name)
}

// BySize orders entries by size, smallest first, then by name. Entries
// without attributes sort first.
func BySize(a, b *Entry) int {
	as, bs := a.Stat(), b.Stat()
	switch {
	case as == nil && bs == nil:
		return ByName(a, b)
	case as == nil:
		return -1
	case bs == nil:
		return 1
	case as.Size < bs.Size:
		return -1
	case as.Size > bs.Size:
		return 1
	}
	return ByName(a, b)
}

// ByModTime orders entries by modification time, oldest first, then by name.
func ByModTime(a, b *Entry) int {
	as, bs := a.Stat(), b.Stat()
	switch {
	case as == nil && bs == nil:
		return ByName(a, b)
	case as == nil:
		return -1
	case bs == nil:
		return 1
	}
	if c := as.ModTime.Compare(bs.ModTime); c != 0 {
		return c
	}
	return ByName(a, b)
}

// DirsFirst wraps cmp so that directories sort before everything else.
func DirsFirst(cmp CompareFunc) CompareFunc {
	return func(a, b *Entry) int {
		ad, bd := isDirInfo(a.info), isDirInfo(b.info)
		switch {
		case ad && !bd:
			return -1
		case bd && !ad:
			return 1
		}
		return cmp(a, b)
	}
}

// Reverse inverts cmp.
func Reverse(cmp CompareFunc) CompareFunc {
	return func(a, b *Entry) int {
		return cmp(b, a)
	}
}

func isDirInfo(i Info) bool {
	return i == InfoDir || i == InfoCycle || i == InfoDot || i == InfoDirUnreadable
}
