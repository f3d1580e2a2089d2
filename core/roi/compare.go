package roi

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/errors"
)

// Scenario is a named input to compare
type Scenario struct {
	Name  string              `json:"name"`
	Input types.ScenarioInput `json:"input"`
}

// Summary is the headline result of one scenario
type Summary struct {
	Name           string              `json:"name"`
	Input          types.ScenarioInput `json:"input"`
	Rows           int                 `json:"rows"`
	MinROI         *Row                `json:"min_roi"`
	MaxROI         *Row                `json:"max_roi"`
	ROITitle       string              `json:"roi_title"`
	BreakevenTitle string              `json:"breakeven_title"`
}

// Summarize reduces a report to its headline figures.
func Summarize(name string, rep *Report) Summary {
	return Summary{
		Name:           name,
		Input:          rep.Input,
		Rows:           rep.Table.Len(),
		MinROI:         rep.MinROI,
		MaxROI:         rep.MaxROI,
		ROITitle:       rep.ROIChart.Title,
		BreakevenTitle: rep.BreakevenChart.Title,
	}
}

// maxConcurrentScenarios bounds the goroutines Compare starts.
const maxConcurrentScenarios = 8

// Compare evaluates scenarios concurrently and returns their summaries in
// input order. The first failing scenario cancels the rest.
func Compare(ctx context.Context, scenarios []Scenario, opts ...Option) ([]Summary, error) {
	out := make([]Summary, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScenarios)

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := Evaluate(sc.Input, opts...)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					return e.WithContext("scenario", sc.Name)
				}
				return err
			}
			out[i] = Summarize(sc.Name, rep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
