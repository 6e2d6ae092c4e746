package event

import (
	"encoding/json"
	"fmt"
)

// Outbox rows outlive the structs that produced them. When an event's JSON
// shape changes, payloads already sitting in the outbox_events table must
// still deserialize, so each changed event type carries a schema version and
// a chain of upgraders that rewrites stale payloads to the current shape
// before unmarshaling.

// EventUpgrader rewrites an event payload from one schema version to the
// next. Upgraders are strictly sequential: each one handles a single
// version step.
type EventUpgrader interface {
	SourceVersion() int
	TargetVersion() int
	Upgrade(payload []byte) ([]byte, error)
}

// PayloadUpgrader implements EventUpgrader with an in-place transform over
// the decoded JSON object. The schema_version field is stamped with the
// target version after the transform runs.
type PayloadUpgrader struct {
	from      int
	to        int
	transform func(data map[string]any) error
}

// NewPayloadUpgrader creates an upgrader that applies transform to the
// decoded payload when migrating from version from to version to.
func NewPayloadUpgrader(from, to int, transform func(data map[string]any) error) *PayloadUpgrader {
	return &PayloadUpgrader{from: from, to: to, transform: transform}
}

func (u *PayloadUpgrader) SourceVersion() int { return u.from }

func (u *PayloadUpgrader) TargetVersion() int { return u.to }

func (u *PayloadUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if err := u.transform(data); err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	data["schema_version"] = u.to
	return json.Marshal(data)
}

var _ EventUpgrader = (*PayloadUpgrader)(nil)

// PayloadVersion reads the schema_version field from raw event JSON.
// Payloads written before versioning existed carry no field and count
// as version 1.
func PayloadVersion(payload []byte) int {
	var header struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(payload, &header); err != nil || header.SchemaVersion < 1 {
		return 1
	}
	return header.SchemaVersion
}

// upgradeChain maps a source version to the upgrader producing the next one.
type upgradeChain map[int]EventUpgrader

// newUpgradeChain validates that the upgraders form an unbroken sequential
// chain covering versions 1 through current.
func newUpgradeChain(eventType string, current int, upgraders []EventUpgrader) (upgradeChain, error) {
	chain := make(upgradeChain, len(upgraders))
	for _, u := range upgraders {
		if u.TargetVersion() != u.SourceVersion()+1 {
			return nil, fmt.Errorf("%s: upgrader must be sequential, got v%d -> v%d",
				eventType, u.SourceVersion(), u.TargetVersion())
		}
		chain[u.SourceVersion()] = u
	}
	for v := 1; v < current; v++ {
		if _, ok := chain[v]; !ok {
			return nil, fmt.Errorf("%s: missing upgrader for v%d -> v%d", eventType, v, v+1)
		}
	}
	return chain, nil
}

// apply upgrades the payload from version from up to version to.
func (c upgradeChain) apply(eventType string, payload []byte, from, to int) ([]byte, error) {
	for v := from; v < to; v++ {
		u, ok := c[v]
		if !ok {
			return nil, fmt.Errorf("%s: missing upgrader for v%d -> v%d", eventType, v, v+1)
		}
		upgraded, err := u.Upgrade(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: upgrade v%d -> v%d: %w", eventType, v, v+1, err)
		}
		payload = upgraded
	}
	return payload, nil
}
