// Package ndb computes the NDB/JS statistical-distance metric for comparing
// a set of generated samples against a reference training distribution,
// without density estimation.
//
// The reference sample space is partitioned into k bins by K-means
// clustering (BinModel). Query samples are then assigned to their nearest
// bin center and the resulting bin-occupancy distribution is compared
// against the reference one (Evaluator): a two-proportion z-test per bin
// yields the NDB score (Number of statistically Different Bins), and the
// Jensen-Shannon divergence between the occupancy distributions yields the
// JS score.
//
// Typical flow:
//
//	model, err := ndb.FitFromSamples(ctx, training, 100, ndb.WithWhitening())
//	ev, err := ndb.NewEvaluator(model)
//	res, err := ev.Evaluate(ctx, queries, "model-a")
//	fmt.Println(res.NDB, res.JS)
//
// Fitted models can be persisted to a blobstore and restored with
// RestoreFromSnapshot, skipping the clustering pass.
package ndb
