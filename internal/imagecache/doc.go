// Package imagecache turns an asynchronous image fetch into a resource that
// can be read synchronously.
//
// A Cache holds one slot: the resource for the (image, game) pair most
// recently requested. Requesting the same pair again returns the same
// resource; requesting another pair starts a new fetch and drops the old
// slot. Each resource fetches exactly once, however many times it is read.
//
// A Resource is pending until its fetch settles, then resolved or failed.
// Read blocks while pending; Peek never blocks.
package imagecache
