package audit

import (
	"encoding/json"
	"log"

	"github.com/motorlot/MotorLot/app/models"
	"github.com/motorlot/MotorLot/app/repository"
)

// Recorder appends entries to the audit trail. A failing recorder never
// fails the primary write it documents.
type Recorder interface {
	Record(action, resource string, actorID, orgID uint, metadata map[string]interface{})
}

type repoRecorder struct {
	repo repository.AuditRepository
}

// NewRecorder creates a recorder backed by the audit repository
func NewRecorder(repo repository.AuditRepository) Recorder {
	return &repoRecorder{repo: repo}
}

func (r *repoRecorder) Record(action, resource string, actorID, orgID uint, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		Action:         action,
		Resource:       resource,
		ActorID:        actorID,
		OrganizationID: orgID,
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = string(raw)
		}
	}
	if err := r.repo.Record(entry); err != nil {
		log.Printf("audit: failed to record %s on %s: %v", action, resource, err)
	}
}

// NoopRecorder discards all entries. Used in tests.
type NoopRecorder struct{}

func (NoopRecorder) Record(string, string, uint, uint, map[string]interface{}) {}
