// Package protocol owns the transaction wire contract and its primitive readers.
//
// Ownership boundary:
// - format generations (length prefix width, reserved bytes, substate envelope)
// - the byte cursor and fixed/variable width value readers
// - the decode error taxonomy shared by every layer above
package protocol
