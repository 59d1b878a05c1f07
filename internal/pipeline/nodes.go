package pipeline

import (
	"context"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/dataset"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/JaimeStill/pest-lab/internal/stats"
)

// execution carries one run's intermediate values between nodes.
type execution struct {
	root      string
	timestamp time.Time

	engine  *classify.Engine
	dataset *dataset.Dataset
	agg     *stats.Aggregator
	records []classify.Record
	summary stats.RunSummary
	reports []string

	// err is the first node failure, kept unwrapped for callers.
	err error
}

func (e *execution) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return err
}

var nodeOrder = []string{"catalog", "scan", "classify", "summarize", "report"}

func (p *Pipeline) build(graph state.StateGraph, exec *execution) error {
	nodes := map[string]state.StateNode{
		"catalog":   p.catalogNode(exec),
		"scan":      p.scanNode(exec),
		"classify":  p.classifyNode(exec),
		"summarize": p.summarizeNode(exec),
		"report":    p.reportNode(exec),
	}

	for _, name := range nodeOrder {
		if err := graph.AddNode(name, nodes[name]); err != nil {
			return err
		}
	}

	for i := 1; i < len(nodeOrder); i++ {
		if err := graph.AddEdge(nodeOrder[i-1], nodeOrder[i], nil); err != nil {
			return err
		}
	}

	if err := graph.SetEntryPoint(nodeOrder[0]); err != nil {
		return err
	}
	return graph.SetExitPoint(nodeOrder[len(nodeOrder)-1])
}

func (p *Pipeline) logNodeTiming(node string, start time.Time) {
	p.logger.Debug("node timing", "node", node, "duration", time.Since(start).String())
}

func (p *Pipeline) catalogNode(exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		defer p.logNodeTiming("catalog", time.Now())

		catalog, err := p.deps.Catalog.Build()
		if err != nil {
			return s, exec.fail(err)
		}

		engine, err := classify.NewEngine(catalog, p.deps.Classifier, p.deps.Logger)
		if err != nil {
			return s, exec.fail(err)
		}
		exec.engine = engine

		p.logger.Info("prompt catalog built", "prompts", catalog.Len())
		return s.Set("prompt_count", catalog.Len()), nil
	})
}

func (p *Pipeline) scanNode(exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		defer p.logNodeTiming("scan", time.Now())

		ds, err := dataset.Scan(ctx, exec.root, dataset.Options{
			Extensions:   p.deps.Dataset.Extensions,
			MaxImageSize: p.deps.MaxImageSize,
			Pages:        p.deps.Pages,
			Logger:       p.deps.Logger,
		})
		if err != nil {
			return s, exec.fail(err)
		}
		exec.dataset = ds

		exec.agg = stats.New()
		for _, class := range ds.Classes {
			exec.agg.Register(class)
		}

		s = s.Set("classes", ds.Classes)
		return s.Set("item_count", len(ds.Items)), nil
	})
}

func (p *Pipeline) classifyNode(exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		defer p.logNodeTiming("classify", time.Now())

		exec.records = make([]classify.Record, 0, len(exec.dataset.Items))
		failed := 0

		for rec := range exec.engine.Process(ctx, exec.dataset.Items) {
			exec.agg.Add(rec)
			exec.records = append(exec.records, rec)
			if rec.Failed() {
				failed++
			}
		}

		if err := ctx.Err(); err != nil {
			return s, exec.fail(err)
		}

		s = s.Set("processed", len(exec.records))
		return s.Set("failed", failed), nil
	})
}

func (p *Pipeline) summarizeNode(exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		defer p.logNodeTiming("summarize", time.Now())

		exec.summary = exec.agg.Summarize()

		s = s.Set("total_files", exec.summary.TotalFiles)
		s = s.Set("total_correct", exec.summary.TotalCorrect)
		return s.Set("overall_accuracy", exec.summary.OverallAccuracy), nil
	})
}

func (p *Pipeline) reportNode(exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		defer p.logNodeTiming("report", time.Now())

		if p.deps.Reports == nil {
			return s, nil
		}

		res := reports.FromAggregator(exec.agg, exec.timestamp)
		keys, err := p.deps.Reports.Write(ctx, res)
		if err != nil {
			return s, exec.fail(err)
		}
		exec.reports = keys

		return s.Set("reports", keys), nil
	})
}
