package app

import (
	"context"
	"errors"
	"fmt"

	"civicpulse/domain/core"
	"civicpulse/domain/evidence"
	"civicpulse/domain/geo"
	"civicpulse/domain/verdict"
)

// In-memory fakes for the provider and repository ports.

type fakeGeocoder struct {
	place string
	err   error
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return f.place, f.err
}

type fakeImageFetcher struct {
	data []byte
	err  error
}

func (f *fakeImageFetcher) FetchJPEG(ctx context.Context, imageURL string) ([]byte, error) {
	return f.data, f.err
}

type fakeNewsProvider struct {
	articles []evidence.NewsArticle
	err      error
}

func (f *fakeNewsProvider) Search(ctx context.Context, category string) ([]evidence.NewsArticle, error) {
	return f.articles, f.err
}

type fakeSocialProvider struct {
	posts []evidence.SocialPost
	err   error
}

func (f *fakeSocialProvider) SearchRecent(ctx context.Context, category, place string) ([]evidence.SocialPost, error) {
	return f.posts, f.err
}

type fakeAlertProvider struct {
	alerts []evidence.WeatherAlert
	err    error
}

func (f *fakeAlertProvider) Alerts(ctx context.Context, lat, lon float64) ([]evidence.WeatherAlert, error) {
	return f.alerts, f.err
}

// memReflexRepo is an in-memory reflex verdict store preserving insert order
type memReflexRepo struct {
	docs      []*verdict.ReflexVerdict
	insertErr error
	listErr   error
}

func (m *memReflexRepo) Insert(ctx context.Context, rv *verdict.ReflexVerdict) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	copied := *rv
	m.docs = append(m.docs, &copied)
	return nil
}

func (m *memReflexRepo) GetByID(ctx context.Context, id core.ReflexID) (*verdict.ReflexVerdict, error) {
	for _, d := range m.docs {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: id %s", core.ErrReflexNotFound, id.String())
}

func (m *memReflexRepo) ListUnprocessed(ctx context.Context, limit int) ([]*verdict.ReflexVerdict, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*verdict.ReflexVerdict
	for _, d := range m.docs {
		if !d.ProcessedByReact {
			copied := *d
			out = append(out, &copied)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memReflexRepo) FinalizeProcessed(ctx context.Context, id core.ReflexID, v verdict.FinalVerdict, confidence float64) (bool, error) {
	for _, d := range m.docs {
		if d.ID == id && !d.ProcessedByReact {
			d.ProcessedByReact = true
			d.ReactVerdict = v
			d.CrowdConfidence = confidence
			return true, nil
		}
	}
	return false, nil
}

func (m *memReflexRepo) ListByCell(ctx context.Context, cellID core.CellID, limit int) ([]*verdict.ReflexVerdict, error) {
	var out []*verdict.ReflexVerdict
	for i := len(m.docs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.docs[i].CellID == cellID {
			copied := *m.docs[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memReflexRepo) byID(id core.ReflexID) *verdict.ReflexVerdict {
	for _, d := range m.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// memReactRepo is an in-memory react verdict store
type memReactRepo struct {
	docs      map[core.ReactID]*verdict.ReactVerdict
	createErr error
	traceErr  error
}

func newMemReactRepo() *memReactRepo {
	return &memReactRepo{docs: make(map[core.ReactID]*verdict.ReactVerdict)}
}

func (m *memReactRepo) Create(ctx context.Context, rv *verdict.ReactVerdict) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *rv
	copied.ThoughtProcess = []verdict.ThoughtEntry{}
	copied.Actions = []verdict.ActionEntry{}
	m.docs[rv.ID] = &copied
	return nil
}

func (m *memReactRepo) GetByID(ctx context.Context, id core.ReactID) (*verdict.ReactVerdict, error) {
	if d, ok := m.docs[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
}

func (m *memReactRepo) AppendThought(ctx context.Context, id core.ReactID, entry verdict.ThoughtEntry) error {
	if m.traceErr != nil {
		return m.traceErr
	}
	d, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	d.ThoughtProcess = append(d.ThoughtProcess, entry)
	return nil
}

func (m *memReactRepo) AppendAction(ctx context.Context, id core.ReactID, entry verdict.ActionEntry) error {
	if m.traceErr != nil {
		return m.traceErr
	}
	d, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	d.Actions = append(d.Actions, entry)
	return nil
}

func (m *memReactRepo) Complete(ctx context.Context, id core.ReactID, v verdict.FinalVerdict, confidence float64, analysis, endTime string) error {
	d, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	d.FinalVerdict = v
	d.Confidence = confidence
	d.Analysis = analysis
	d.Status = verdict.StatusCompleted
	d.EndTime = endTime
	return nil
}

func (m *memReactRepo) Fail(ctx context.Context, id core.ReactID, errMsg, endTime string) error {
	d, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("%w: id %s", core.ErrReactNotFound, id.String())
	}
	d.Status = verdict.StatusFailed
	d.Error = errMsg
	d.EndTime = endTime
	return nil
}

func (m *memReactRepo) single() *verdict.ReactVerdict {
	for _, d := range m.docs {
		return d
	}
	return nil
}

// memCellRepo is an in-memory grid cell store with union semantics matching
// the real adapter: AddIncident returns false for both a missing cell and an
// already-present category.
type memCellRepo struct {
	cells  []*geo.GridCell
	addErr error
}

func (m *memCellRepo) ListOrdered(ctx context.Context) ([]geo.GridCell, error) {
	out := make([]geo.GridCell, 0, len(m.cells))
	for _, c := range m.cells {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCellRepo) GetByID(ctx context.Context, id core.CellID) (*geo.GridCell, error) {
	for _, c := range m.cells {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: id %s", core.ErrCellNotFound, id.String())
}

func (m *memCellRepo) AddIncident(ctx context.Context, id core.CellID, category string) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	for _, c := range m.cells {
		if c.ID != id {
			continue
		}
		if c.HasIncident(category) {
			return false, nil
		}
		c.Incidents = append(c.Incidents, category)
		c.Status = geo.CellStatusActive
		return true, nil
	}
	return false, nil
}

func (m *memCellRepo) Insert(ctx context.Context, cell geo.GridCell) error {
	copied := cell
	m.cells = append(m.cells, &copied)
	return nil
}

var errBoom = errors.New("boom")
