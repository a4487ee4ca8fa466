package dto

import "github.com/google/uuid"

// PublishSyncSessionMessage asks the sync worker to mirror one locally
// stored session to the remote database.
type PublishSyncSessionMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
