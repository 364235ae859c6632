// Package output connects an audio.Context to a clock source.
//
// The default build plays through the system audio device using oto. Built
// with the headless tag, Open returns a device that only advances the
// Context clock in real time, which keeps timers and analysers running on
// machines without sound hardware.
package output
