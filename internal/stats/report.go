package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	WordAggsAll      []model.WordAggregate
	WordAggsWindow   []model.WordAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	wordAggsAll, err := st.ListWordAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	wordAggsWindow, err := st.ListWordAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		WordAggsAll:      wordAggsAll,
		WordAggsWindow:   wordAggsWindow,
	}, nil
}

// Render writes the full text report.
func (r Report) Render(w io.Writer, cfg model.StatsConfig, totalWidth int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, cfg.CurveWindow, totalWidth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Window: last %d of %d sessions\n", len(r.WindowSessionIDs), len(r.Sessions)); err != nil {
		return err
	}
	if err := RenderWordTable(w, r.WordAggsWindow, cfg.Top); err != nil {
		return err
	}
	if missed := TopMissedWords(r.WordAggsAll, cfg.Top); len(missed) > 0 {
		if _, err := fmt.Fprintf(w, "Most missed overall: %s\n", strings.Join(missed, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
