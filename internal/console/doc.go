// Package console implements the interactive text front end: the main menu,
// the order placement flow, and the tracking loop with search, sort, edit,
// and delete actions.
package console
