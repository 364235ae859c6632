// Package biquad provides the second-order IIR filter used by the tone
// graph's filter stage.
//
// [Design] turns a filter [Type], corner frequency and quality factor into
// [Coefficients] using the RBJ audio-EQ cookbook formulas. A [Section]
// filters samples with Direct Form II Transposed processing and can be
// retuned between blocks without clearing its delay line.
package biquad
