package notify

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/business-management-api/internal/metrics"
	"go.uber.org/zap"
)

// Notifier enqueues invitation jobs for the worker.
type Notifier struct {
	queue Queue
	log   *zap.Logger
}

func NewNotifier(queue Queue, log *zap.Logger) *Notifier {
	return &Notifier{queue: queue, log: log}
}

// EnqueueInvitation pushes a job. Failures are logged and swallowed: the
// invitation stays valid in the cache and can be re-sent.
func (n *Notifier) EnqueueInvitation(ctx context.Context, inv Invitation) {
	if err := n.queue.Push(ctx, inv); err != nil {
		n.log.Error("failed to enqueue invitation email",
			zap.Uint64("organization_id", inv.OrganizationID),
			zap.String("invitee", inv.InviteeEmail),
			zap.Error(err),
		)
		return
	}
	metrics.ObserveInvitation(metrics.InvitationQueued)
}

// Worker drains the queue and sends each invitation once.
type Worker struct {
	queue       Queue
	mailer      Mailer
	log         *zap.Logger
	pollTimeout time.Duration
}

func NewWorker(queue Queue, mailer Mailer, log *zap.Logger) *Worker {
	return &Worker{queue: queue, mailer: mailer, log: log, pollTimeout: 5 * time.Second}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("invitation worker started")
	for {
		if err := ctx.Err(); err != nil {
			w.log.Info("invitation worker stopped")
			return nil
		}

		inv, err := w.queue.Pop(ctx, w.pollTimeout)
		switch {
		case errors.Is(err, ErrQueueEmpty):
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			w.log.Info("invitation worker stopped")
			return nil
		case err != nil:
			w.log.Error("failed to read invitation queue", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			continue
		}

		w.handle(ctx, *inv)
	}
}

func (w *Worker) handle(ctx context.Context, inv Invitation) {
	if err := w.mailer.SendInvitation(ctx, inv); err != nil {
		metrics.ObserveInvitation(metrics.InvitationFailed)
		w.log.Error("failed to send invitation email",
			zap.Uint64("organization_id", inv.OrganizationID),
			zap.String("invitee", inv.InviteeEmail),
			zap.Error(err),
		)
		return
	}
	metrics.ObserveInvitation(metrics.InvitationSent)
	w.log.Info("invitation email sent",
		zap.Uint64("organization_id", inv.OrganizationID),
		zap.String("invitee", inv.InviteeEmail),
	)
}
