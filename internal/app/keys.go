package app

import "github.com/nhle/taskwhisper/internal/keys"

// KeyMap is re-exported from the keys package.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
