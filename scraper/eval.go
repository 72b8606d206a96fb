package scraper

import (
	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

// Evaluator runs a JS function expression in the page and returns its
// decoded result. It is the seam between the chart logic and rod, so
// tests can substitute an in-process page model.
type Evaluator interface {
	Eval(js string, args ...any) (gson.JSON, error)
}

// PageEvaluator adapts a rod page to the Evaluator interface.
type PageEvaluator struct {
	Page *rod.Page
}

func (p PageEvaluator) Eval(js string, args ...any) (gson.JSON, error) {
	obj, err := p.Page.Eval(js, args...)
	if err != nil {
		return gson.New(nil), err
	}
	return obj.Value, nil
}
