// Package audit writes the append-only audit trail. Writes are best-effort:
// a failed audit insert never blocks or fails the primary operation.
package audit

import (
	"encoding/json"

	"booking-service/internal/model"
	"booking-service/pkg/database"
	"booking-service/pkg/jwtutil"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"go.uber.org/zap"
)

// ActorKind is the closed set of audited actor categories.
type ActorKind int

const (
	ActorUser ActorKind = iota
	ActorAdmin
	ActorDealer
)

func (k ActorKind) String() string {
	switch k {
	case ActorAdmin:
		return "admin"
	case ActorDealer:
		return "dealer"
	default:
		return "user"
	}
}

// ActorKindFromRole maps a JWT role to its coarse audit category.
// Partner roles audit as users; dealer staff audit as dealers.
func ActorKindFromRole(role string) ActorKind {
	switch role {
	case "admin":
		return ActorAdmin
	case "dealer", "dealer_user":
		return ActorDealer
	default:
		return ActorUser
	}
}

// Process is the audited mutation kind.
type Process string

const (
	ProcessCreate Process = "create"
	ProcessUpdate Process = "update"
	ProcessDelete Process = "delete"
)

// Write appends one audit row snapshotting the target entity. The target id
// is taken from the snapshot's "id" field when present. Failures are logged
// and counted, never returned.
func Write(actor *jwtutil.UserClaims, process Process, targetName string, snapshot interface{}) {
	log := logger.GetLogger()

	content, err := json.Marshal(snapshot)
	if err != nil {
		prometheus.AuditLogFailureCounter.Inc()
		log.Error("Failed to serialize audit snapshot",
			zap.String("target_name", targetName),
			zap.Error(err))
		return
	}

	entry := model.Log{
		Type:       ActorKindFromRole(actor.Role).String(),
		Process:    string(process),
		TargetName: targetName,
		TargetID:   snapshotID(content),
		UserID:     actor.UserID,
		Content:    string(content),
	}

	if err := database.GetDB().Create(&entry).Error; err != nil {
		prometheus.AuditLogFailureCounter.Inc()
		log.Error("Failed to write audit log",
			zap.String("target_name", targetName),
			zap.String("process", string(process)),
			zap.Error(err))
	}
}

// snapshotID extracts the "id" field from a serialized snapshot, or returns
// an empty string.
func snapshotID(content []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(content, &fields); err != nil {
		return ""
	}
	if id, ok := fields["id"].(string); ok {
		return id
	}
	return ""
}
