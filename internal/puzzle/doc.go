// Package puzzle implements the word-search engine: grid construction,
// random word placement with collision checks, filler letters, and
// set-equality validation of user selections against known placements.
//
// The package has no notion of sessions, users or time; those live in
// package game.
package puzzle
