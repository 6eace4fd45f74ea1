package events

import "toolshed/internal/logging"

type SearchTracer struct{}

var Search = SearchTracer{}

func (SearchTracer) Submit(generation uint64, query string, adapters []string) {
	logging.Trace("search.submit", map[string]interface{}{
		"generation": generation,
		"query":      query,
		"adapters":   adapters,
	})
}

func (SearchTracer) AdapterDone(generation uint64, adapter string, count int) {
	logging.Trace("search.adapter-done", map[string]interface{}{
		"generation": generation,
		"adapter":    adapter,
		"count":      count,
	})
}

func (SearchTracer) AdapterFailed(generation uint64, adapter string, err error) {
	payload := map[string]interface{}{"generation": generation, "adapter": adapter}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("search.adapter-failed", payload)
}

func (SearchTracer) Stale(generation, current uint64, adapter string) {
	logging.Trace("search.stale", map[string]interface{}{
		"generation": generation,
		"current":    current,
		"adapter":    adapter,
	})
}

func (SearchTracer) Complete(generation uint64, results int) {
	logging.Trace("search.complete", map[string]interface{}{
		"generation": generation,
		"results":    results,
	})
}
