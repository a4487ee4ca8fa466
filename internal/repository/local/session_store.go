package local

import (
	"encoding/json"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/mapper"
	"myjourney-be/pkg/localstore"

	"github.com/google/uuid"
)

// SessionStore persists the full session collection as one blob under the
// fixed storage key. It is the authoritative store: remote sync can fail
// without losing anything kept here.
type SessionStore struct {
	kv     *localstore.Store
	mapper *mapper.SessionMapper
}

func NewSessionStore(kv *localstore.Store) *SessionStore {
	return &SessionStore{
		kv:     kv,
		mapper: mapper.NewSessionMapper(),
	}
}

// All returns every locally stored session, in stored order.
func (s *SessionStore) All() ([]*entity.Session, error) {
	blob, found, err := s.kv.Get(constant.SessionStorageKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*entity.Session{}, nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(blob, &docs); err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, 0, len(docs))
	for _, doc := range docs {
		session, err := s.mapper.DecodeSession(doc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Get returns one session by id, or nil when absent.
func (s *SessionStore) Get(id uuid.UUID) (*entity.Session, error) {
	sessions, err := s.All()
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.Id == id {
			return session, nil
		}
	}
	return nil, nil
}

// Save upserts one session into the collection blob (read-modify-write).
func (s *SessionStore) Save(session *entity.Session) error {
	sessions, err := s.All()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range sessions {
		if existing.Id == session.Id {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	return s.writeAll(sessions)
}

// Delete removes exactly the session with the given id, leaving all others
// untouched. Deleting an absent id is a no-op.
func (s *SessionStore) Delete(id uuid.UUID) error {
	sessions, err := s.All()
	if err != nil {
		return err
	}

	kept := sessions[:0]
	for _, session := range sessions {
		if session.Id != id {
			kept = append(kept, session)
		}
	}
	return s.writeAll(kept)
}

func (s *SessionStore) writeAll(sessions []*entity.Session) error {
	docs := make([]json.RawMessage, 0, len(sessions))
	for _, session := range sessions {
		doc, err := s.mapper.EncodeSession(session)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	blob, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return s.kv.Set(constant.SessionStorageKey, blob)
}
