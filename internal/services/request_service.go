// Package services – RequestService
//
// This file implements the RequestService, which owns the adoption
// request lifecycle: submission with its ordered precondition chain,
// requester cancellation, and the status state machine whose approval
// branch cascades to the parent publication and the competing requests.
//
// Approval is the one transition with side effects beyond the single row:
// the publication leaves the marketplace and every other pending
// applicant is auto-rejected, all inside one transaction. The requester
// of the explicitly transitioned request is notified after commit on a
// best-effort basis; auto-rejected siblings are not notified.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MatiBarber/PetNet/internal/domain"
	"github.com/MatiBarber/PetNet/internal/repo"
)

// StatusNotification describes a status change to be delivered to the
// requester of an adoption request.
type StatusNotification struct {
	RecipientEmail string
	RecipientName  string
	PetName        string
	Status         string
}

// Notifier delivers status-change notifications. Implementations are
// best-effort: a delivery failure is reported to the caller of
// StatusChanged but must never influence the already-committed state
// transition.
type Notifier interface {
	StatusChanged(ctx context.Context, n StatusNotification) error
}

// RequestService implements the use-cases around adoption requests. All
// multi-row effects run inside a single transaction; the database's
// isolation is the sole concurrency-safety mechanism, so two concurrent
// approvals on one publication can never both commit.
type RequestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Notifier receives post-commit status notifications. May be nil, in
	// which case dispatch is skipped and reported as not sent.
	Notifier Notifier
}

// Submit creates a pending adoption request by requesterID for
// publicationID.
//
// Preconditions, checked in order, first failure wins:
//   - message must not be blank (ValidationError)
//   - the publication must exist (ErrPublicationNotFound)
//   - the publication must be available (ErrPublicationUnavailable)
//   - the requester must not be the owner (ErrOwnPublication)
//   - no prior request by this user on this listing (ErrDuplicateRequest)
//
// The checks and the insert share one transaction; the unique index on
// (requester_id, publication_id) catches the race where two submits for
// the same pair arrive concurrently — exactly one wins.
func (s *RequestService) Submit(ctx context.Context, requesterID, publicationID uint, message string) (*domain.Request, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		verr := &ValidationError{}
		verr.add("message", "must not be empty")
		return nil, verr
	}

	var req *domain.Request
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pub, err := repo.GetPublication(ctx, tx, publicationID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrPublicationNotFound
			}
			return err
		}
		if pub.Status != domain.PublicationAvailable {
			return ErrPublicationUnavailable
		}
		if pub.OwnerID == requesterID {
			return ErrOwnPublication
		}

		if _, err := repo.FindRequest(ctx, tx, requesterID, publicationID); err == nil {
			return ErrDuplicateRequest
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		r, err := repo.CreateRequest(ctx, tx, requesterID, publicationID, message)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRequest
			}
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel deletes a pending request on behalf of its requester.
//
// Preconditions: the request exists (ErrRequestNotFound), belongs to
// requesterID (ErrNotRequester), and is still pending
// (ErrRequestNotPending). The row is hard-deleted, so a second cancel
// observes ErrRequestNotFound. No cascade.
func (s *RequestService) Cancel(ctx context.Context, requesterID, requestID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetRequest(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.RequesterID != requesterID {
			return ErrNotRequester
		}
		if r.Status != domain.RequestPending {
			return ErrRequestNotPending
		}
		return repo.DeleteRequest(ctx, tx, requestID)
	})
}

// ChangeStatus moves a request to target on behalf of the publication
// owner. It returns the resulting request and whether a notification was
// actually dispatched.
//
// Precondition order:
//   - target ∈ {pending, approved, rejected} (ErrInvalidStatus)
//   - the request exists (ErrRequestNotFound)
//   - the caller owns the parent publication (ErrNotPublicationOwner)
//   - the request is not approved (ErrRequestApproved — approval is
//     terminal, even when target is "approved" again)
//   - when the current state already equals target, nothing is written,
//     nothing is sent, and the unchanged request is returned as success
//
// Approval additionally requires the publication to still be available
// (ErrPublicationUnavailable): under concurrent approvals the loser
// arrives after the winner's cascade and observes either this conflict or
// the idempotent no-op on its already-rejected row.
//
// Effects run in one transaction. For approval: the request becomes
// approved, the publication becomes unavailable, and every other pending
// request on it becomes rejected. For pending/rejected targets only the
// single row changes. The requester is notified after commit; dispatch
// failure is logged and surfaced via the returned flag, never by undoing
// the transition.
func (s *RequestService) ChangeStatus(ctx context.Context, ownerID, requestID uint, target string) (*domain.Request, bool, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !domain.ValidRequestStatus(target) {
		return nil, false, ErrInvalidStatus
	}

	var (
		req  *domain.Request
		noop bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetRequest(ctx, tx, requestID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.Publication.OwnerID != ownerID {
			return ErrNotPublicationOwner
		}
		if r.Status == domain.RequestApproved {
			return ErrRequestApproved
		}
		if r.Status == target {
			req, noop = r, true
			return nil
		}

		next, err := domain.NextStatus(ctx, r.Status, target)
		if err != nil {
			return err
		}

		if next == domain.RequestApproved {
			if r.Publication.Status != domain.PublicationAvailable {
				return ErrPublicationUnavailable
			}
			if err := repo.UpdateRequestStatus(ctx, tx, r.ID, next); err != nil {
				return err
			}
			if err := repo.UpdatePublicationStatus(ctx, tx, r.PublicationID, domain.PublicationUnavailable); err != nil {
				return err
			}
			rejected, err := repo.RejectPendingSiblings(ctx, tx, r.PublicationID, r.ID)
			if err != nil {
				return err
			}
			log.Debug().
				Uint("request_id", r.ID).
				Uint("publication_id", r.PublicationID).
				Int64("siblings_rejected", rejected).
				Msg("adoption request approved")
			r.Publication.Status = domain.PublicationUnavailable
		} else {
			if err := repo.UpdateRequestStatus(ctx, tx, r.ID, next); err != nil {
				return err
			}
		}

		r.Status = next
		req = r
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if noop {
		return req, false, nil
	}

	return req, s.notify(ctx, req), nil
}

// ListSent returns the requests submitted by requesterID, newest first.
func (s *RequestService) ListSent(ctx context.Context, requesterID uint) ([]domain.Request, error) {
	return repo.ListRequestsByRequester(ctx, s.DB, requesterID)
}

// ListReceived returns every request targeting a publication owned by
// ownerID, newest first.
func (s *RequestService) ListReceived(ctx context.Context, ownerID uint) ([]domain.Request, error) {
	return repo.ListRequestsForOwner(ctx, s.DB, ownerID)
}

// notify dispatches a post-commit status notification to the requester
// and reports whether it was sent. Failures are logged; the committed
// state change is the source of truth.
func (s *RequestService) notify(ctx context.Context, r *domain.Request) bool {
	if s.Notifier == nil {
		return false
	}
	n := StatusNotification{
		RecipientEmail: r.Requester.Email,
		RecipientName:  r.Requester.Name,
		Status:         r.Status,
	}
	if r.Publication.Pet != nil {
		n.PetName = r.Publication.Pet.Name
	}
	if err := s.Notifier.StatusChanged(ctx, n); err != nil {
		log.Warn().
			Err(err).
			Uint("request_id", r.ID).
			Str("status", r.Status).
			Msg("status notification dispatch failed")
		return false
	}
	return true
}

// isUniqueViolation reports whether err is the composite-index violation
// raised when two submits for the same (requester, publication) race.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
