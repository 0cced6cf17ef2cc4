// Package cli is the interactive cardkeeper client.
//
// The App holds the collection of the active game and everything derived
// from it: the table view (filter and sort), the selection, the entry form,
// the detail panel and the image viewer. Commands are read line by line by
// runREPL; type "help" for the list. Questions such as "discard changes?"
// are asked inline and answered with y or n.
package cli
