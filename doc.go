// Package flock provides grouped linear support vector machine training for
// Go, designed for datasets where one model must be fit per group key.
//
// Flock trains each group with incremental gradient descent, running all
// groups in lock step: every group advances exactly one pass over its rows
// per round, and the run stops when every group's coefficient vector has
// stabilized or a shared iteration cap is reached.
//
// # Features
//
// - Grouped Training: one independent model per group key, synchronized rounds
// - scikit-learn-like API: Fit / Predict / Score estimators
// - Classification and Regression: hinge and epsilon-insensitive loss
// - Robust Error Handling: structured errors with stack traces
// - Diagnostics: per-group loss history and loss-curve plotting
//
// # Installation
//
// Install flock using go get:
//
//	go get github.com/flockml/flock
//
// # Quick Start
//
// Here's a simple example of a linear SVM classifier:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "github.com/flockml/flock/svm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Create training data
//	    X := mat.NewDense(4, 2, []float64{
//	        0, 0,
//	        0, 1,
//	        2, 2,
//	        2, 3,
//	    })
//	    y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    // Create and train model
//	    model := svm.NewLinearSVC(svm.WithMaxIter(200))
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Make predictions
//	    predictions, err := model.Predict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", predictions)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - svm: linear SVM estimators (LinearSVC, LinearSVR)
//   - igd: the iterative gradient-descent driver, schedule and convergence test
//   - dataset: group-partitioned training data built from gonum matrices
//   - metrics: evaluation metrics (Accuracy, MSE, R2Score)
//   - diagnostics: loss-curve plotting
//   - core/group: double-buffered per-group state store
//   - core/parallel: CPU-parallel helpers
//   - pkg/errors: structured error types and warning handling
//   - pkg/log: logging interfaces and zerolog integration
//
// For more information, see the documentation of the individual packages.
package flock
