// Package priors resolves default prior definitions for model parameters and
// promotes fitted estimates into narrowed priors for the next fitting stage.
//
// A Store is built once from a raw category/class/parameter tree and is
// read-only afterwards. Factory turns definitions into sampling-ready priors;
// Promoter derives the next stage's definitions from fitted estimates, using
// each definition's width modifier and gaussian limits.
package priors
