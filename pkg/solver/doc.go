// Package solver implements a multi-agent math solving pipeline on top of
// the mathflow graph engine.
//
// Five roles cooperate on one problem: a Generator drafts a solution, a
// Validator checks it numerically and critiques the reasoning, a Critic
// turns the critique into corrections, a Refiner rewrites the solution,
// and an Evaluator scores the improvement. An Orchestrator hub routes
// between them based on which state fields have been produced, so a run
// always visits the stages in order and a resumed run picks up at the
// first missing stage.
//
// Generation is augmented with a deterministic arithmetic tool: the
// Generator and Refiner each make a draft pass, the draft's answer
// candidate is evaluated by pkg/calc, and a second pass folds the computed
// value back into the final text.
//
// Model failures never abort a run. A missing or failing model binary
// yields sentinel strings in the affected fields and the pipeline still
// reaches the end with a complete transcript.
package solver
