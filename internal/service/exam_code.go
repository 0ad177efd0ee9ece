package service

import (
	"crypto/rand"

	"github.com/rs/zerolog/log"
)

const examCodeLength = 6

// Alphabet omits 0/O/1/I so codes survive being read aloud or written
// on a whiteboard.
const examCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewExamCode returns a short human-enterable code. Codes are stored
// upper-case and matched case-insensitively on lookup.
func NewExamCode() string {
	buf := make([]byte, examCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble.
		log.Fatal().Err(err).Msg("Failed to read random bytes for exam code")
	}
	for i, b := range buf {
		buf[i] = examCodeAlphabet[int(b)%len(examCodeAlphabet)]
	}
	return string(buf)
}
