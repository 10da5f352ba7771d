package tools

import "github.com/prometheus/procfs"

// ResidentMemory returns the current resident set size in bytes, or 0
// when /proc is not available.
func ResidentMemory() uint64 {
	p, err := procfs.Self()
	if err != nil {
		return 0
	}
	st, err := p.Stat()
	if err != nil {
		return 0
	}
	return uint64(st.ResidentMemory())
}
