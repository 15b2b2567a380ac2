// Package stats reduces slot and video snapshots into dashboard bucket counts.
//
// A slot bound to a pool video is counted once, under the video's processing
// or ready bucket and the video's scheduled date. Only unbound slots are
// counted by their own status.
package stats
