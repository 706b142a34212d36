package repositories

import "strconv"

// itoa shortens positional-placeholder construction in filtered queries
func itoa(n int) string {
	return strconv.Itoa(n)
}
