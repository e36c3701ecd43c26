package redis

import (
	"fmt"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wheelwords"

// gameKey returns the Redis key for a game record
func gameKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, code)
}

// versionKey returns the Redis key holding the record's version counter
func versionKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:gamever:%s", keyPrefix, code)
}

// eventChannel returns the pub/sub channel snapshots are published on
func eventChannel(code model.JoinCode) string {
	return fmt.Sprintf("%s:events:%s", keyPrefix, code)
}
