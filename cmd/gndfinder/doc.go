// Package main hosts the gndfinder CLI entrypoint and command graph.
//
// The Cobra-based command tree reads composer tables, runs the GND lookup and
// resolution passes, and renders summaries and review lists. It centralizes
// configuration resolution, logger construction, and cache wiring so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
