// Package mmap provides read-only memory-mapped file access.
//
// Raw image blobs are read at scattered offsets, one region per target.
// Mapping the file once lets every lookup copy straight out of the page cache
// without a seek and read per target.
//
//	m, err := mmap.Open("D20160714T023910_IFCB101.roi")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// Unix platforms use mmap(2); Windows uses CreateFileMapping/MapViewOfFile.
//
// Close is idempotent. Callers must not use a slice returned by Bytes after
// Close returns.
package mmap
