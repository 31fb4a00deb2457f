package checkpointer

import "fmt"

// Namer returns the name of the file to checkpoint to at the end of
// an episode
type Namer func(episode int) string

// ByEpisode returns a Namer which suffixes filename with the episode
// number, zero padded to six digits, followed by extension. For
// example, ByEpisode("model/checkpoint-", ".gob")(100) returns
// "model/checkpoint-000100.gob".
func ByEpisode(filename, extension string) Namer {
	return func(episode int) string {
		return fmt.Sprintf("%v%06d%v", filename, episode, extension)
	}
}

// Fixed returns a Namer which always returns filename, so that every
// checkpoint overwrites the last
func Fixed(filename string) Namer {
	return func(int) string {
		return filename
	}
}
