// Package main hosts the reelpool CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls on api.Service:
// folder and video listings, render-pipeline ingest, assignment, lifecycle
// transitions, bulk publish, campaign stats and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands only
// parse flags and render results.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through a dedicated command or flag here.
package main
