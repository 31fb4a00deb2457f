// Package checkpointer implements saving and restoring of gob-encoded
// objects to and from files
package checkpointer

import (
	"encoding/gob"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// Checkpointer checkpoints/saves serializable objects at the end of
// episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}
