package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxChatRunes = 500

type ChatMessage struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NormalizeChat 去掉首尾空白并校验长度。
func NormalizeChat(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", Reject(ReasonChatEmpty)
	}
	if utf8.RuneCountInString(msg) > MaxChatRunes {
		return "", Reject(ReasonChatTooLong).WithData("max_runes", MaxChatRunes)
	}
	return msg, nil
}
