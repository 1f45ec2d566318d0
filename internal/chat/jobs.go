package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
)

// Publisher hands a job id to the queue.
type Publisher interface {
	PublishJob(ctx context.Context, jobID string) error
}

// EntryCreator stores the summarized entry.
type EntryCreator interface {
	Create(ctx context.Context, d journal.Draft) (*journal.View, error)
}

// EnqueueSummary records a queued job and publishes it.
func (s *Service) EnqueueSummary(ctx context.Context, sessionID string, pub Publisher) (*Job, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	j := &Job{ID: id, SessionID: sessionID, Status: JobQueued}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	if err := pub.PublishJob(ctx, j.ID); err != nil {
		if markErr := s.repo.MarkJobFailed(ctx, j.ID, "enqueue failed: "+err.Error()); markErr != nil {
			s.log.Error("mark job failed", zap.String("job_id", j.ID), zap.Error(markErr))
		}
		return nil, fmt.Errorf("publish job: %w", err)
	}
	return j, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJobByID(ctx, id)
}

// RunSummaryJob summarizes the job's session into a new entry linked to it and completes
// the session. A job that is not queued any more is skipped.
func (s *Service) RunSummaryJob(ctx context.Context, jobID string, entries EntryCreator) error {
	started, err := s.repo.MarkJobRunning(ctx, jobID)
	if err != nil {
		return err
	}
	if !started {
		s.log.Info("summary job already taken", zap.String("job_id", jobID))
		return nil
	}

	j, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	entryID, err := s.summarizeIntoEntry(ctx, j.SessionID, entries)
	if err != nil {
		if markErr := s.repo.MarkJobFailed(ctx, jobID, err.Error()); markErr != nil {
			s.log.Error("mark job failed", zap.String("job_id", jobID), zap.Error(markErr))
		}
		return err
	}
	return s.repo.MarkJobSucceeded(ctx, jobID, entryID)
}

func (s *Service) summarizeIntoEntry(ctx context.Context, sessionID string, entries EntryCreator) (string, error) {
	transcript, err := s.Transcript(ctx, sessionID)
	if err != nil {
		return "", err
	}
	summary, err := s.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}
	sid := sessionID
	v, err := entries.Create(ctx, journal.Draft{
		SessionID: &sid,
		Title:     "SESSION " + shortID(sessionID),
		Content:   summary,
		Tags:      []string{"CHAT"},
	})
	if err != nil {
		return "", err
	}
	if err := s.repo.MarkSessionCompleted(ctx, sessionID); err != nil {
		return "", err
	}
	return v.ID, nil
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
