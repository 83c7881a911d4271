// Package validate checks stored PDF assets for structural integrity
// and removes the ones that fail.
package validate

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/gaurav-prasanna/sdspull/core"
)

// Checker validates PDF files with pdfcpu in relaxed mode. Relaxed
// validation accepts the slightly off-spec files the host serves while
// still rejecting truncated or garbage downloads.
type Checker struct{}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check opens path as a PDF and classifies it. Every failure mode maps
// to a result value; a panic or unexpected engine error is captured as
// a corrupt result so a sweep never aborts on a single bad file.
func (c *Checker) Check(path string) (result core.ValidationResult) {
	result = core.ValidationResult{Path: path}
	defer func() {
		if r := recover(); r != nil {
			result.Status = core.FileCorrupt
			result.Reason = fmt.Sprintf("unexpected: %v", r)
		}
	}()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			result.Status = core.FileNotFound
			return result
		}
		result.Status = core.FileCorrupt
		result.Reason = fmt.Sprintf("unexpected: %v", err)
		return result
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		result.Status = core.FileCorrupt
		result.Reason = err.Error()
		return result
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		result.Status = core.FileCorrupt
		result.Reason = fmt.Sprintf("unexpected: %v", err)
		return result
	}
	if pages == 0 {
		result.Status = core.FileNoPages
		return result
	}

	result.Status = core.FileValid
	return result
}
