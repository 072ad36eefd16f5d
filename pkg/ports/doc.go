/*
Package ports defines the driven ports (interfaces) for the stepwise model
service.

These interfaces decouple model handling from external implementations, so the
same session manager works against memory, the filesystem or Redis.

# Key Interfaces

  - ModelStore: persists and loads model snapshots by name.
  - DistributedLocker: provides distributed locking for concurrent model access.
  - ScriptSource: resolves model scripts and their imports (e.g., from Loam).
*/
package ports
