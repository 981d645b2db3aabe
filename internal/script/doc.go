// Package script parses and replays recorded annotation events.
//
// A script is a sequence of semantic events, the same ones a front end
// produces from mouse and keyboard input. Two encodings are accepted.
//
// The line format has one command per line; blank lines and lines starting
// with '#' are ignored:
//
//	click X Y
//	shift down|up
//	commit
//	select PATHID
//	clear
//	zoom in|out
//	zoom set FACTOR
//	resize TOP LEFT WIDTH HEIGHT
//	scroll DX DY
//	image INDEX
//	open FILENAME
//
// The YAML format is a document with an "events" list whose entries carry a
// "type" key and the matching fields (x, y, held, path, action, factor,
// top, left, width, height, dx, dy, index, filename).
package script
