/*
Package domain contains the core domain models of the stepwise propagation model.

It defines the vocabulary shared by every other package: the propagation status
tags, the per-field state tags, the amendment sentinels, the value shapes
(regions, tables), the ordered analysis steps and the derived StepState
records. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Step: A named, ordered stage of the analysis sequence.
  - StepState: The derived per-step shadow of an entity (object status plus one tag per propagating field).
  - Values: A field name to value mapping used for definitions and amendments.
  - ModelSnapshot: The serializable form of a whole model, replayed on load.
*/
package domain
