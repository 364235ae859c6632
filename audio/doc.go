// Package audio is a small pull-based audio engine: the host runtime the
// tone graph is built on.
//
// A [Context] owns an audio clock, a [Destination] and a set of nodes
// ([Oscillator], [Gain], [BiquadFilter], [BufferSource], [Analyser]) that are
// wired with Connect and ConnectParam and released with Disconnect. Audio is
// produced by calling [Context.Render], normally from an output device
// goroutine; every call renders whole quanta of [RenderQuantum] frames and
// advances the clock. Node parameters are [Param] values that accept
// scheduled automation (set and linear-ramp events on the audio clock) and
// audio-rate modulation from other nodes.
//
// All node methods are safe for concurrent use: they serialise on the
// owning Context. Timers created with [Context.AfterFunc] fire on the
// rendering goroutine after the quantum in which they fall due, outside the
// Context lock, so callbacks may call any node method.
package audio
