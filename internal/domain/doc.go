// Package domain models plate-kinematics data flowing between the dataset
// loaders, the external reconstruction engine, and the export pipeline.
//
// # Reconstruction engine boundary
//
// All geometric and rotational computation — resolving topological plate
// boundaries, stage rotations, velocity transforms, reconstructing point
// geometries — happens inside an external plate reconstruction engine,
// reached through the [ReconstructionEngine] interface. Nothing in this
// repository reimplements that machinery; adapters only reshape engine
// outputs into tables.
//
// # Conventions
//
//	Times are geological ages in Ma (million years before present).
//	Reconstruction runs from older (larger) to younger (smaller) times.
//	Coordinates are WGS-84 longitude/latitude in decimal degrees.
//	Rates are cm/yr, obliquities and azimuths degrees, arc lengths degrees
//	of arc along the trench.
//	Plate ID 0 means "not inside any resolved plate polygon".
//
// # Convergence sign conventions
//
// Convergence and migration rates follow the engine's convention: positive
// convergence rate means the subducting plate moves toward the trench,
// negative means divergence. Obliquity is the angle between the motion
// vector and the normal to the subduction zone line.
package domain
