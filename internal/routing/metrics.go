package routing

import (
	"fmt"
	"sync"

	"github.com/quizflow/quizflow/pkg/domain"
)

// Recorder counts routing decisions for observability. It is purely
// additive: no routing decision ever depends on recorded values.
// Implementations must be safe for use from multiple sessions.
type Recorder interface {
	RecordDecision(from domain.Phase, target domain.Target)
	RecordErrorKind(kind ErrorKind)
	RecordRejection(from domain.Phase, proposed domain.Target)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordDecision(domain.Phase, domain.Target)  {}
func (NopRecorder) RecordErrorKind(ErrorKind)                   {}
func (NopRecorder) RecordRejection(domain.Phase, domain.Target) {}

// Stats is a point-in-time snapshot of recorded counts.
type Stats struct {
	Decisions  map[string]uint64 `json:"decisions"`  // "phase->target"
	ErrorKinds map[string]uint64 `json:"errors"`     // per classifier kind
	Rejections map[string]uint64 `json:"rejections"` // "phase->target"
}

// SnapshotRecorder is an in-memory Recorder readable via Snapshot.
// Constructed per router (or per test), never as a package global.
type SnapshotRecorder struct {
	mu         sync.Mutex
	decisions  map[string]uint64
	errorKinds map[string]uint64
	rejections map[string]uint64
}

// NewSnapshotRecorder creates an empty recorder.
func NewSnapshotRecorder() *SnapshotRecorder {
	return &SnapshotRecorder{
		decisions:  make(map[string]uint64),
		errorKinds: make(map[string]uint64),
		rejections: make(map[string]uint64),
	}
}

func transitionKey(from domain.Phase, target domain.Target) string {
	return fmt.Sprintf("%s->%s", from, target)
}

func (r *SnapshotRecorder) RecordDecision(from domain.Phase, target domain.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions[transitionKey(from, target)]++
}

func (r *SnapshotRecorder) RecordErrorKind(kind ErrorKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorKinds[string(kind)]++
}

func (r *SnapshotRecorder) RecordRejection(from domain.Phase, proposed domain.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections[transitionKey(from, proposed)]++
}

// Snapshot returns a copy of the current counts.
func (r *SnapshotRecorder) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Decisions:  copyCounts(r.decisions),
		ErrorKinds: copyCounts(r.errorKinds),
		Rejections: copyCounts(r.rejections),
	}
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
