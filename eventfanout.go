package orrery

import "pkt.systems/orrery/embedder"

type eventFanout struct {
	sinks []embedder.Sink
}

func (f eventFanout) OnEmbedderEvent(ev embedder.Event) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnEmbedderEvent(ev)
	}
}
