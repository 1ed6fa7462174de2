package emoji

import (
	"sync/atomic"

	"github.com/yildizm/SigSum/internal/signal"
)

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"statistics": {"📊", "[STATS]"},
	"signal":     {"〰️", "[SIG]"},
	"average":    {"🧮", "[AVG]"},
	"minimum":    {"🔻", "[MIN]"},
	"maximum":    {"🔺", "[MAX]"},
	"ascending":  {"📈", "[UP]"},
	"descending": {"📉", "[DOWN]"},
	"stable":     {"➡️", "[FLAT]"},
	"rocket":     {"🚀", "[API]"},
	"watch":      {"👀", "[WATCH]"},
	"config":     {"⚙️", "[CFG]"},
	"door":       {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForTrend returns the symbol for a trend
func ForTrend(t signal.Trend) string {
	switch t {
	case signal.TrendAscending:
		return GetEmoji("ascending")
	case signal.TrendDescending:
		return GetEmoji("descending")
	case signal.TrendStable:
		return GetEmoji("stable")
	default:
		return GetEmoji("unknown")
	}
}
