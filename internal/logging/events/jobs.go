package events

import "toolshed/internal/logging"

type JobTracer struct{}

type StoreTracer struct{}

var (
	Job   = JobTracer{}
	Store = StoreTracer{}
)

func (JobTracer) Enqueued(id, kind, target string) {
	logging.Trace("job.enqueue", map[string]interface{}{"id": id, "kind": kind, "target": target})
}

func (JobTracer) Rejected(kind, target string) {
	logging.Trace("job.rejected", map[string]interface{}{"kind": kind, "target": target})
}

func (JobTracer) Started(id, kind string) {
	logging.Trace("job.start", map[string]interface{}{"id": id, "kind": kind})
}

func (JobTracer) Finished(id string, err error) {
	payload := map[string]interface{}{"id": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("job.finish", payload)
}

func (StoreTracer) Mutation(kind, toolID string, err error) {
	payload := map[string]interface{}{"kind": kind, "tool": toolID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("store.mutation", payload)
}

func (StoreTracer) SnapshotError(err error) {
	if err == nil {
		return
	}
	logging.Trace("store.snapshot-error", map[string]interface{}{"error": err.Error()})
}
