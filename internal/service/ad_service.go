package service

import (
	"context"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/ads"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
)

// AdDecision is the answer for one placement in one session.
type AdDecision struct {
	Show      bool          `json:"show"`
	Placement ads.Placement `json:"placement"`
}

type AdService struct {
	sessions *ads.SessionStore
	metrics  *metrics.Recorder
}

func NewAdService(sessions *ads.SessionStore, rec *metrics.Recorder) *AdService {
	return &AdService{sessions: sessions, metrics: rec}
}

// Decide parses a backend placement payload and decides whether to show it
// in sessionID. Malformed payloads are returned as errors, never shown.
func (s *AdService) Decide(ctx context.Context, sessionID string, payload []byte) (AdDecision, error) {
	p, err := ads.ParsePlacement(payload)
	if err != nil {
		s.metrics.AdDecision("malformed")
		logging.FromContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("rejected ad payload")
		return AdDecision{}, err
	}

	show := s.sessions.Get(sessionID).Decide(p)
	if show {
		s.metrics.AdDecision("shown")
	} else {
		s.metrics.AdDecision("suppressed")
	}
	return AdDecision{Show: show, Placement: p}, nil
}

// EndSession clears all ad state of sessionID.
func (s *AdService) EndSession(sessionID string) bool {
	return s.sessions.End(sessionID)
}
