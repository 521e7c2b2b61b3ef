// Package task finds CI task declarations in pipeline file text.
//
// A declaration is a line of the form
//
//   - task: Build/Compile@3
//
// Detection is line oriented: the pipeline document itself is never parsed.
// Only bare integer versions are recognised at this stage; dotted versions are
// a registry concern.
package task
