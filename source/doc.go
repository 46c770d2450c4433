// Package source locates a file group's files under the base content
// directory and assembles their contents into one prompt-ready block.
//
// All file access goes through an afero.Fs so callers can run against the
// OS filesystem or an in-memory one.
package source
