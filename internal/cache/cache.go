// Package cache decides whether the consolidated bibliography is recent enough
// to skip a refresh. The only cache state is the file's modification time.
package cache

import (
	"os"
	"time"
)

// DefaultWindow is how long a consolidated bibliography stays fresh.
const DefaultWindow = 24 * time.Hour

// State describes the cache token at a point in time.
type State struct {
	Path      string        `json:"path"`
	Exists    bool          `json:"exists"`
	Fresh     bool          `json:"fresh"`
	ModTime   time.Time     `json:"mod_time,omitempty"`
	Age       time.Duration `json:"age,omitempty"`
	ExpiresAt time.Time     `json:"expires_at,omitempty"`
}

// IsFresh reports whether path exists and was modified less than window before now.
// A missing or unreadable file is always stale.
func IsFresh(path string, window time.Duration, now time.Time) bool {
	return Status(path, window, now).Fresh
}

// Status inspects the cache token without touching it.
func Status(path string, window time.Duration, now time.Time) State {
	st := State{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return st
	}

	st.Exists = true
	st.ModTime = info.ModTime()
	st.Age = now.Sub(st.ModTime)
	st.ExpiresAt = st.ModTime.Add(window)
	st.Fresh = st.Age < window
	return st
}
