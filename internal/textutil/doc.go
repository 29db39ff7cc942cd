// Package textutil scores how closely an input file name resembles the
// title it is paired with.
//
// Scores combine a Jaro-Winkler edit similarity with the cosine similarity of
// token fingerprints, so reordered words and small spelling differences both
// rank well. The plan command uses the score to flag pairings that look
// misaligned before a batch is run.
package textutil
