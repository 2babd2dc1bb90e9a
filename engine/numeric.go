package engine

import "strconv"

func itoa(v int) string        { return strconv.Itoa(v) }
func uitoa(v uint64) string    { return strconv.FormatUint(v, 10) }
func parseUint(s string) uint64 {
	n, _ := strconv.ParseUint(s, 10, 64)
	return n
}
