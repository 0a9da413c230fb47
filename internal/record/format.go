// File: internal/record/format.go
package record

import (
	"fmt"
	"time"
)

// FormatDuration renders a millisecond duration as MM:SS, e.g. 433000 -> "07:13".
// Minutes are not wrapped into hours.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatCreatedDate renders the time of day, e.g. "03:04 PM".
func FormatCreatedDate(t time.Time) string {
	return t.Format("03:04 PM")
}

// FormatDate renders the calendar day, e.g. "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// EmojiForEmotion returns the emoji shown next to a recording.
func EmojiForEmotion(e Emotion) string {
	switch e {
	case EmotionAngry:
		return "😠"
	case EmotionHappiness:
		return "😄"
	case EmotionDisgust:
		return "🤢"
	case EmotionFear:
		return "😨"
	default:
		return "😐"
	}
}
