package artifacts

import (
	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// Store holds the ordered artifact list of a single chat request. Each
// request constructs its own Store, so there is no cross-request sharing and
// no locking.
type Store struct {
	list     []types.Artifact
	activeID string
}

func NewStore() *Store {
	return &Store{}
}

// Merge upserts by id. An existing artifact is shallow-merged (incoming
// non-empty scalar fields win, metadata merges key-by-key with incoming
// winning on conflict); a new artifact is appended after missing display
// fields are defaulted. The active pointer advances to the merged artifact.
// Merging the same artifact twice is a no-op the second time.
func (s *Store) Merge(in types.Artifact) types.Artifact {
	if in.ID == "" {
		in.ID = "artifact-untitled"
	}

	for i := range s.list {
		if s.list[i].ID != in.ID {
			continue
		}
		merged := mergeInto(s.list[i], in)
		s.list[i] = merged
		s.activeID = merged.ID
		return merged
	}

	appended := withDefaults(in)
	s.list = append(s.list, appended)
	s.activeID = appended.ID
	return appended
}

// SetActive moves the active pointer explicitly. Unknown ids are ignored.
func (s *Store) SetActive(id string) {
	for i := range s.list {
		if s.list[i].ID == id {
			s.activeID = id
			return
		}
	}
}

// Active returns the most recently touched artifact, or nil when the list is
// empty.
func (s *Store) Active() *types.Artifact {
	for i := range s.list {
		if s.list[i].ID == s.activeID {
			a := s.list[i]
			return &a
		}
	}
	return nil
}

func (s *Store) ActiveID() string { return s.activeID }

// List returns a copy of the artifact list in insertion order.
func (s *Store) List() []types.Artifact {
	out := make([]types.Artifact, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Store) Len() int { return len(s.list) }

func mergeInto(existing, in types.Artifact) types.Artifact {
	out := existing
	if in.Type != "" {
		out.Type = in.Type
	}
	if in.Title != "" {
		out.Title = in.Title
	}
	if in.Content != "" {
		out.Content = in.Content
	}
	if in.ExternalURL != "" {
		out.ExternalURL = in.ExternalURL
	}
	if in.EmbedURL != "" {
		out.EmbedURL = in.EmbedURL
	}
	if len(in.Metadata) > 0 {
		merged := make(map[string]any, len(existing.Metadata)+len(in.Metadata))
		for k, v := range existing.Metadata {
			merged[k] = v
		}
		for k, v := range in.Metadata {
			merged[k] = v
		}
		out.Metadata = merged
	}
	return out
}

func withDefaults(in types.Artifact) types.Artifact {
	if in.Type == "" {
		in.Type = types.ArtifactDocument
	}
	if in.Title == "" {
		in.Title = "Untitled document"
	}
	if in.Metadata == nil {
		in.Metadata = map[string]any{}
	}
	return in
}
