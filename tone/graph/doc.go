// Package graph builds, retunes and tears down the live tone chain:
//
//	lfo -> lfoGain -> osc.frequency
//	osc -> filter -> env -> analyser -> destination
//	noise -> noiseGain -> env
//
// A Graph owns at most one live node set. Stop fades the envelope out and
// releases the node set it captured once the fade has elapsed on the audio
// clock, so a Start issued during the fade builds a fresh, disjoint set.
package graph
