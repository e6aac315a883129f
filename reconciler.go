package main

// Reconcile computes the diff between the Outlook events and the Google
// events for one run. It returns the source events that need to be created
// in Google (toAdd) and the previously sync-created Google events that no
// longer correspond to any source event (toRemove).
//
// Only Google events carrying the sync-origin suffix are ever candidates
// for removal; events the user created in Google directly are never touched.
//
// Matching is a multiset difference keyed by the content-equality tuple:
// each source event consumes at most one matching candidate, in destination
// order. A duplicated source event therefore matches a single candidate only
// once; the second copy is treated as a new addition.
func Reconcile(sourceEvents, destEvents []Event) (toAdd, toRemove []Event) {
	// Per-key FIFO queues of removal candidates, holding indexes into
	// destEvents so toRemove can preserve destination order.
	candidates := make(map[string][]int)
	consumed := make([]bool, len(destEvents))

	for i, event := range destEvents {
		if event.isSyncOrigin() {
			k := event.key()
			candidates[k] = append(candidates[k], i)
		}
	}

	toAdd = []Event{}
	for _, event := range sourceEvents {
		k := event.key()
		if queue := candidates[k]; len(queue) > 0 {
			// Still current in Google; nothing to do.
			consumed[queue[0]] = true
			candidates[k] = queue[1:]
		} else {
			toAdd = append(toAdd, event)
		}
	}

	toRemove = []Event{}
	for i, event := range destEvents {
		if event.isSyncOrigin() && !consumed[i] {
			toRemove = append(toRemove, event)
		}
	}

	return toAdd, toRemove
}
