/*
Package session serializes access to persisted models.

A Manager loads a model snapshot, replays it into a live Model, runs an edit
and saves the result, holding a per-model lock for the whole cycle. Local
locks are reference counted and collected when idle; an optional
DistributedLocker extends the guarantee across replicas.
*/
package session
