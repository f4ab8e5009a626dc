// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbind

// Model is the native simulation object driven by a Binding. Storage is
// addressed in 32 bits words, word 0 holding the least significant bits.
//
// A Binding validates every access against its Table before calling into the
// Model, so implementations need not check names, indices or directions.
// Values wider than the declared width must be truncated by Store.
//
type Model interface {
	// Load returns word w of the named signal. For arrays, elem is the
	// element index; it is ignored for scalar signals.
	Load(name string, elem, word int) uint32
	// Store sets word w of the named input signal.
	Store(name string, word int, v uint32)
	// Eval advances the model by one evaluation step.
	Eval()
	// Close releases the resources held by the model.
	Close() error
}

// Tracer is implemented by models that can write waveform traces.
//
type Tracer interface {
	Trace(path string) (TraceSink, error)
}

// TraceSink is an open waveform trace.
//
type TraceSink interface {
	// Dump records the current state of the model at time t.
	Dump(t uint64) error
	Flush() error
	Close() error
}

// A NewModelFn returns a new, independent model instance.
//
type NewModelFn func() (Model, error)
