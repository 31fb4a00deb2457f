package checkpointer

import "fmt"

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   Serializable
	name     Namer
}

// NewNEpisode returns a checkpointer that saves object every n
// episodes, to the file name returns for the episode.
func NewNEpisode(n int, object Serializable, name Namer) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNEpisode: interval must be positive "+
			"\n\twant(>0)\n\thave(%v)", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		name:     name,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object if episode is a
// multiple of the checkpointing interval
func (n *nEpisode) Checkpoint(episode int) error {
	if episode%n.interval != 0 {
		return nil
	}
	if err := NewFile(n.name(episode)).Save(n.object); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
