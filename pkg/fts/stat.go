package fts

import "io/fs"

// stat classifies p using its access path. follow selects Stat over Lstat;
// Logical streams always follow.
func (s *Stream) stat(p *Entry, follow bool) Info {
	var (
		attr Attr
		err  error
	)
	if s.isSet(Logical) || follow {
		if attr, err = s.fsys.Stat(p.accpath); err != nil {
			if lattr, lerr := s.fsys.Lstat(p.accpath); lerr == nil {
				p.setStat(lattr)
				return InfoSymlinkDangling
			}
			p.err = err
			p.setStat(Attr{})
			return InfoNoStat
		}
	} else if attr, err = s.fsys.Lstat(p.accpath); err != nil {
		p.err = err
		p.setStat(Attr{})
		return InfoNoStat
	}
	p.setStat(attr)

	if attr.IsDir() {
		p.dev, p.ino, p.nlink = attr.Dev, attr.Ino, attr.Nlink
		if isDot(p.name) {
			return InfoDot
		}
		for t := p.parent; t != nil && t.level >= RootLevel; t = t.parent {
			if p.ino == t.ino && p.dev == t.dev {
				p.cycle = t
				s.log.Verbose("fts: %s is a cycle back to %s", p.accpath, t.Path())
				return InfoCycle
			}
		}
		return InfoDir
	}

	switch {
	case attr.Mode&fs.ModeSymlink != 0:
		return InfoSymlink
	case attr.Mode.IsRegular():
		return InfoFile
	default:
		return InfoDefault
	}
}
