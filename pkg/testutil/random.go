// Package testutil provides utilities for testing
package testutil

import (
	"fmt"
	"math/rand"
	"time"
)

// RandomString generates a random string of given length
func RandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// RandomBranchName generates a unique documentation branch name for testing
func RandomBranchName() string {
	return fmt.Sprintf("test-docs-%s-%d", RandomString(8), time.Now().UnixNano())
}

// RandomCommitMessage generates a random commit message
func RandomCommitMessage() string {
	messages := []string{
		"Generate docs",
		"Update API documentation",
		"Publish rustdoc",
		"Refresh documentation",
	}
	return messages[rand.Intn(len(messages))] + " " + RandomString(5)
}
