// Package storage persists publishers, manuscript submissions and uploaded files.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// Status is the editorial review state of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRevision Status = "revision"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Stage is the production stage of an approved submission.
type Stage string

const (
	StageNone         Stage = ""
	StageEditing      Stage = "editing"
	StageLayout       Stage = "layout"
	StageProofreading Stage = "proofreading"
	StagePrinting     Stage = "printing"
	StagePublished    Stage = "published"
)

// Stages lists the production stages in order.
var Stages = []Stage{StageEditing, StageLayout, StageProofreading, StagePrinting, StagePublished}

// NextStage returns the stage after s. The second result is false when s is
// the final stage or not a production stage at all.
func NextStage(s Stage) (Stage, bool) {
	for i, stage := range Stages {
		if stage == s && i+1 < len(Stages) {
			return Stages[i+1], true
		}
	}
	return StageNone, false
}

// Publisher is a publishing house manuscripts can be sent to.
type Publisher struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FileRef points at an uploaded manuscript held by a FileStore.
type FileRef struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
}

// Event is one entry of a submission's history.
type Event struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	Status Status    `json:"status,omitempty"`
	Stage  Stage     `json:"stage,omitempty"`
	Note   string    `json:"note,omitempty"`
}

// Submission is a manuscript sent through the wizard.
type Submission struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Synopsis      string     `json:"synopsis"`
	Category      string     `json:"category"`
	ReaderSegment string     `json:"readerSegment"`
	PublisherIDs  []int64    `json:"publisherIds"`
	AuthorName    string     `json:"authorName"`
	NationalID    string     `json:"nationalId"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	PromotionPlan string     `json:"promotionPlan"`
	Manuscript    FileRef    `json:"manuscript"`
	Status        Status     `json:"status"`
	Stage         Stage      `json:"stage,omitempty"`
	ReviewNote    string     `json:"reviewNote,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	History       []Event    `json:"history"`
}

// Filter narrows ListSubmissions. Empty fields match everything.
type Filter struct {
	Status Status
	Stage  Stage
}

// Match reports whether sub passes the filter.
func (f Filter) Match(sub Submission) bool {
	if f.Status != "" && sub.Status != f.Status {
		return false
	}
	if f.Stage != "" && sub.Stage != f.Stage {
		return false
	}
	return true
}

// Store defines persistence operations for publishers and submissions.
type Store interface {
	EnsureSchema(ctx context.Context) error
	ListPublishers(ctx context.Context) ([]Publisher, error)
	GetPublisher(ctx context.Context, id int64) (Publisher, error)
	CreatePublisher(ctx context.Context, p Publisher) (Publisher, error)
	ListSubmissions(ctx context.Context, filter Filter) ([]Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
	UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
}
