// Package fcm implements Fuzzy C-Means clustering of time series with a
// pluggable dissimilarity, by default Dynamic Time Warping.
//
// What:
//
//	Given n series of length t, a cluster count c and a fuzziness exponent
//	m > 1, Run alternates three steps until the objective settles:
//	  – Centroids: weighted arithmetic mean of the series under U^m.
//	  – Memberships: closed-form update from DTW distances to the centroids.
//	  – Objective: Jm = Σ U^m · d², compared with the previous pass.
//
// Building blocks are exported (InitMembership, Centroids, DistanceTable,
// MembershipFromDistances, UpdateMembership, Objective) so callers and tests
// can drive single steps.
//
// Determinism:
//
//	Randomness comes only from the initial membership matrix. WithSeed or
//	WithRand make a run reproducible; WithWorkers never changes results.
//
// Options:
//
//	WithSeed, WithRand, WithMetric, WithObjectiveMetric, WithWorkers,
//	WithLogger, WithObserver.
//
// Errors:
//
//	ErrInvalidParameter for unusable arguments, ErrObserverAbort when the
//	observer hook stops the run. Reaching maxIter is reported through
//	Result.Status, not as an error.
package fcm
