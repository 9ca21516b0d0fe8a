package manuscripts

import (
	"context"
	"errors"
	"strings"

	"github.com/penerbit-id/naskah/internal/storage"
)

// Action represents the allowed editorial review actions.
type Action string

const (
	// ActionApprove accepts the manuscript and starts production.
	ActionApprove Action = "approve"
	// ActionReject declines the manuscript.
	ActionReject Action = "reject"
	// ActionRevise asks the author for a revision.
	ActionRevise Action = "revise"
)

var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrMissingIdentifier = errors.New("submission id is required")
	ErrAlreadyReviewed   = errors.New("submission has already been reviewed")
	ErrNotApproved       = errors.New("submission is not approved")
	ErrFinalStage        = errors.New("submission is already published")
)

// ReviewRequest captures the payload required to review a submission.
type ReviewRequest struct {
	ID     string `json:"id"`
	Action Action `json:"action"`
	Note   string `json:"note"`
}

// ReviewResult contains the final status for the processed submission.
type ReviewResult struct {
	Status     Action             `json:"status"`
	Submission storage.Submission `json:"submission"`
}

// Review applies an editorial decision to a pending or revision submission.
func (s *Service) Review(ctx context.Context, req ReviewRequest) (ReviewResult, error) {
	action := normaliseAction(req.Action)
	if action == "" {
		return ReviewResult{}, ErrInvalidAction
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return ReviewResult{}, ErrMissingIdentifier
	}

	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return ReviewResult{}, err
	}
	if sub.Status != storage.StatusPending && sub.Status != storage.StatusRevision {
		return ReviewResult{}, ErrAlreadyReviewed
	}

	now := s.now()
	note := strings.TrimSpace(req.Note)
	switch action {
	case ActionApprove:
		sub.Status = storage.StatusApproved
		sub.Stage = storage.StageEditing
	case ActionReject:
		sub.Status = storage.StatusRejected
	case ActionRevise:
		sub.Status = storage.StatusRevision
	}
	sub.ReviewNote = note
	sub.ReviewedAt = &now
	sub.History = append(sub.History, storage.Event{
		At:     now,
		Kind:   "review",
		Status: sub.Status,
		Stage:  sub.Stage,
		Note:   note,
	})

	saved, err := s.store.UpdateSubmission(ctx, sub)
	if err != nil {
		s.logger.Error("review", "update submission", err, map[string]any{"id": id, "action": string(action)})
		return ReviewResult{}, err
	}
	s.logger.Info("review", "submission reviewed", map[string]any{
		"id":     id,
		"action": string(action),
		"status": string(saved.Status),
	})
	return ReviewResult{Status: action, Submission: saved}, nil
}

// Advance moves an approved submission to its next production stage.
func (s *Service) Advance(ctx context.Context, id string) (storage.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Submission{}, ErrMissingIdentifier
	}
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return storage.Submission{}, err
	}
	if sub.Status != storage.StatusApproved {
		return storage.Submission{}, ErrNotApproved
	}
	next, ok := storage.NextStage(sub.Stage)
	if !ok {
		return storage.Submission{}, ErrFinalStage
	}

	sub.Stage = next
	sub.History = append(sub.History, storage.Event{At: s.now(), Kind: "stage", Status: sub.Status, Stage: next})
	saved, err := s.store.UpdateSubmission(ctx, sub)
	if err != nil {
		return storage.Submission{}, err
	}
	s.logger.Info("review", "production stage advanced", map[string]any{"id": id, "stage": string(next)})
	return saved, nil
}

func normaliseAction(action Action) Action {
	switch Action(strings.ToLower(strings.TrimSpace(string(action)))) {
	case ActionApprove:
		return ActionApprove
	case ActionReject:
		return ActionReject
	case ActionRevise:
		return ActionRevise
	default:
		return ""
	}
}
