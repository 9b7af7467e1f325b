// Package thumbnail renders resized variants of uploaded images.
//
// The pipeline has two halves. On the request path, Dispatcher accepts a
// DerivativeJob without blocking and forwards it to the task queue from a
// background goroutine; when its buffer is full the job is dropped and the
// caller is told so. On the worker side, Processor is registered as a queue
// handler: it loads the image, renders every configured width with a Renderer
// and stores each result under files.DerivativeKey(fileID, width).
//
// A derivative that has not been rendered yet simply does not exist; readers
// get files.ErrNotFound until the job completes.
package thumbnail
