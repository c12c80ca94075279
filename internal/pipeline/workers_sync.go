package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/hcmsync/hcm-sync/internal/canonical"
	"github.com/hcmsync/hcm-sync/internal/connector/hcm"
	"github.com/hcmsync/hcm-sync/internal/notify"
	"github.com/hcmsync/hcm-sync/internal/reconcile"
)

// EventPoster posts worker change events.
type EventPoster interface {
	PostEvent(ctx context.Context, event hcm.Event) error
}

// WorkersSync reconciles canonical records against the flattened worker
// export and posts the resulting change events.
type WorkersSync struct {
	Poster   EventPoster
	Notifier notify.Notifier
}

// Run evaluates every canonical record. Each change is posted independently;
// one field's failure never blocks the remaining fields or workers. Posting
// failures on notify-flagged fields additionally alert the operator.
func (p *WorkersSync) Run(ctx context.Context, records []canonical.Record, workers []*hcm.Worker) error {
	runID := uuid.NewString()
	log.Printf("pipeline: workers sync run %s (%d canonical, %d remote)", runID, len(records), len(workers))

	flat := make(map[string]reconcile.FlatWorker, len(workers))
	for _, w := range workers {
		flat[w.AssociateOID] = reconcile.Flatten(w)
	}

	var posted, failed int
	for _, rec := range records {
		match, ok := flat[rec.AssociateOID]
		if !ok {
			continue
		}

		for _, change := range reconcile.Diff(rec, match) {
			log.Printf("%s\t%s\t%s => %s", rec.EmployeeNumber, change.Field, change.Old, change.New)

			if err := p.Poster.PostEvent(ctx, change.Event); err != nil {
				failed++
				log.Printf("pipeline: post %s for %s: %v", change.Field, rec.AssociateOID, err)
				if change.NotifyOnFailure {
					p.alert(ctx, rec, change.Field, err)
				}
				continue
			}
			posted++
		}
	}

	log.Printf("pipeline: workers sync run %s done (%d posted, %d failed)", runID, posted, failed)
	return nil
}

func (p *WorkersSync) alert(ctx context.Context, rec canonical.Record, field string, postErr error) {
	if p.Notifier == nil {
		return
	}
	subject := "Worker Update Error - " + field
	body := fmt.Sprintf("%s\n\n%v", rec.EmployeeNumber, postErr)
	if err := p.Notifier.Notify(ctx, subject, body); err != nil {
		log.Printf("pipeline: send alert: %v", err)
	}
}
