package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock pakai time.Now() dalam UTC, sama seperti kolom created_at di DB
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
