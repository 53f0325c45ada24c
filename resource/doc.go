// Package resource bounds the resources spent reading bins.
//
// A Controller governs three resource types:
//
//   - Memory: bytes held by in-process block caches (hard limit, fail-fast or blocking)
//   - Workers: bins processed concurrently by batch tools
//   - IO: bytes per second fetched from remote stores (token bucket)
//
// All methods are safe on a nil *Controller, which imposes no limits:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxWorkers:         8,
//	    IOLimitBytesPerSec: 50 << 20,
//	})
package resource
