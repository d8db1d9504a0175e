// Package agent hosts the orchestration controller and its collaborators:
// the planner boundary (goal → task list, with a deterministic fallback) and
// the synthesis boundary (task results → final report). The controller owns
// one audit session per run and drives a flow from input to report.
package agent
