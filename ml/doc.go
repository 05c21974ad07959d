// Package ml scores ambiguous protein pairs with an ensemble of binary
// classifiers trained on parsimony-selected positives and sampled negatives.
//
// Pipeline per ensemble run r (seed = rng.DeriveSeed(top, r)):
//
//  1. Draw |positives| fresh negatives from the sampling.Sampler.
//  2. Split positives+negatives into stratified k folds; fit on k-1, predict
//     the held-out fold; pool held-out predictions into one AUC.
//  3. Refit on all run data and score every ambiguous pair.
//
// The final score of a pair is the mean over runs. Runs execute on an
// errgroup with a parallelism limit; each run owns its generators and writes
// only its own row of the score table, so results do not depend on the
// degree of parallelism.
//
// Features (FeatureBuilder): for every abundance source in sorted order,
// "<source>_a" and "<source>_b" with the larger value first, then
// "known_ppi" ∈ {0,1}. Missing abundances are NaN; the shipped
// LogisticRegression mean-imputes them from its training data.
package ml
