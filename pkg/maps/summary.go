package maps

import "fmt"

// Summary aggregates one listing for the display surfaces.
type Summary struct {
	Regions       int    `json:"regions"`
	TotalSize     uint64 `json:"total_size"`
	AnonymousSize uint64 `json:"anonymous_size"`
	Anonymous     int    `json:"anonymous"`
	Special       int    `json:"special"`
	Deleted       int    `json:"deleted"`
	Backed        int    `json:"backed"`
}

func (ms Maps) Summary() Summary {
	var s Summary
	s.Regions = len(ms)
	for _, m := range ms {
		size := m.AddressRange.Size()
		s.TotalSize += size
		switch m.Pathname.Kind {
		case PathnameAbsent:
			s.Anonymous++
			s.AnonymousSize += size
		case PathnameSpecial:
			s.Special++
		case PathnameDeleted:
			s.Deleted++
		case PathnamePath:
			s.Backed++
		}
	}
	return s
}

const (
	_ = 1 << (iota * 10)
	kb
	mb
	gb
)

// HumanSize renders a byte count for the dump and top views.
func HumanSize(s uint64) string {
	switch {
	case s < kb:
		return fmt.Sprintf("%dB", s)
	case s < mb:
		return fmt.Sprintf("%.2fKB", float64(s)/kb)
	case s < gb:
		return fmt.Sprintf("%.2fMB", float64(s)/mb)
	default:
		return fmt.Sprintf("%.2fGB", float64(s)/gb)
	}
}
