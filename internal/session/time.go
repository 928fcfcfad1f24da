package session

import "time"

// timeNow is a package-level variable so tests can pin the clock.
var timeNow = time.Now

// timeLayout matches SQLite's datetime('now') textual form.
const timeLayout = "2006-01-02 15:04:05"
