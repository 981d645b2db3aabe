// Package session ties the annotation components together.
//
// A Session owns the ordered list of loaded images, the active image, the
// zoom controller, the path state machine and the panel registry of the
// active image. Semantic input events (pointer, modifier, commit, select,
// clear, zoom, resize, scroll) are dispatched to the right component, and
// the Listener is told what to render.
//
// A Session is not safe for concurrent use. Events must be delivered from a
// single goroutine; the only concurrency is inside LoadImages, which
// decodes on worker goroutines and joins before touching session state.
package session
