// Package checkpoint persists per-node state snapshots so interrupted
// pipeline runs can be resumed.
package checkpoint

import (
	"encoding/json"
	"time"
)

// Version is the checkpoint format version. Bump on breaking changes.
const Version = 1

// Checkpoint is one persisted snapshot of a run: the serialized state after
// a node executed, plus enough metadata to resume at the right place.
type Checkpoint struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	NodeID    string    `json:"node_id"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`

	State    json.RawMessage `json:"state"`
	NextNode string          `json:"next_node"`

	PrevNodeID string `json:"prev_node_id,omitempty"`
}

// New builds a checkpoint. State must already be JSON-encoded.
func New(runID, nodeID string, sequence int, state []byte, nextNode string) *Checkpoint {
	return &Checkpoint{
		Version:   Version,
		RunID:     runID,
		NodeID:    nodeID,
		Sequence:  sequence,
		Timestamp: time.Now().UTC(),
		State:     state,
		NextNode:  nextNode,
	}
}

// WithPrevNode records the predecessor node for debugging.
func (c *Checkpoint) WithPrevNode(prev string) *Checkpoint {
	c.PrevNodeID = prev
	return c
}

// Marshal serializes the checkpoint to JSON.
func (c *Checkpoint) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal decodes a checkpoint from JSON.
func Unmarshal(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
