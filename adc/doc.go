// Package adc parses the per-target metadata file of a bin.
//
// Each line of an .adc file is one comma-separated numeric record; the first
// record is target 1. The column layout is given by a schema.Schema:
//
//	t, err := adc.ParseFile("D20160714T023910_IFCB101.adc", schema.V2)
//	rec, err := t.Get(42)
//	width := rec.Int(t.Schema().RoiWidth)
//
// A record whose field count differs from the schema is rejected unless a
// FieldPolicy says otherwise.
package adc
