package commands

import (
	"fmt"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// EventProcessor handles one snapshot event, typically by forwarding it to
// the ingestion pipeline.
type EventProcessor func(types.SnapshotEvent)

// PrintEventProcessor writes each event as a line on stdout.
func PrintEventProcessor(event types.SnapshotEvent) {
	fmt.Println(event.String())
}

// ProcessSnapshotEvents hands every event to processor, in order. A nil
// processor prints.
func ProcessSnapshotEvents(events []types.SnapshotEvent, processor EventProcessor) {
	if processor == nil {
		processor = PrintEventProcessor
	}
	for _, event := range events {
		processor(event)
	}
}
