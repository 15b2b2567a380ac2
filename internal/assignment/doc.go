// Package assignment binds pool videos from a folder to open content slots.
package assignment
