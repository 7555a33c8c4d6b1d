package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NewID returns a collision-resistant string ID: unix-milli timestamp plus a
// random suffix. IDs created later sort after IDs created earlier.
func NewID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}
