// Package model defines the intermediate model shared by the instance and
// schema walkers and consumed by emitters. A generation run yields a Result:
// an ordered list of Records (root first), each carrying ordered Properties
// whose TypeDescriptor and Shape tell emitters which fragment variant to
// produce. Records are plain values; nothing in this package performs I/O.
//
// The package also hosts the type classifier (Classify, ClassifyDeclared and
// ShapeFor) because the shape table is part of the model contract rather than
// of either walker.
package model
