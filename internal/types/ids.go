// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

type ThreadID string
type RunID string
type ChannelKey string

func NewThreadID() ThreadID {
	return ThreadID(uuid.New().String())
}

func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func NewChannelKey(parts ...string) ChannelKey {
	return ChannelKey(strings.Join(parts, ":"))
}
