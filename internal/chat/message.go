package chat

import "time"

// Message is the single frame type exchanged with clients. Timestamp is
// assigned by the server on the broadcast path; values arriving from the
// wire are never trusted.
type Message struct {
	User      string  `json:"user"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// NowSeconds returns wall-clock time as fractional seconds since the Unix
// epoch, the unit carried in Message.Timestamp.
func NowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
