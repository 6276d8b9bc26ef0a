// Package storage provides flat-file JSON persistence for the batch tools.
//
// Inputs (the QuACS catalog and scheduling files) are read through a Storage
// rooted at a semester directory; outputs are written with Save as indented JSON.
// There is no partial-write recovery: an interrupted run is simply re-run.
package storage
