// Command songscan runs the media analysis daemon and provides operator
// utilities for submitting jobs, inspecting results, and managing the song
// catalog.
package main
