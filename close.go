package ifcb

import "context"

// Close releases the .roi blob handle if the bin holds one. Closing a closed
// bin is a no-op. Records and headers stay readable after Close, and Image
// fails with ErrClosed. Images and FinalImages are not gated by Close.
func (b *Bin) Close() error {
	if b == nil || b.closed.Swap(true) {
		return nil
	}
	var firstErr error
	if b.images != nil {
		if err := b.images.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.logger.LogClose(context.Background(), firstErr)
	return firstErr
}
