package services

import (
	"crypto/rand"
	"math/big"
)

const (
	linkCodeLen = 8
	// no 0/O or 1/I so codes survive being read aloud
	linkCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func pickRune(s string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s))))
	if err != nil {
		return 0, err
	}
	return s[n.Int64()], nil
}

// GenerateLinkCode returns a short one-time code for pairing a Telegram chat.
func GenerateLinkCode() (string, error) {
	result := make([]byte, linkCodeLen)
	for i := range result {
		c, err := pickRune(linkCodeAlphabet)
		if err != nil {
			return "", err
		}
		result[i] = c
	}
	return string(result), nil
}
