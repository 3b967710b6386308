// Package pagination implements numbered pagination for the discussion list.
//
// A Paginator decorates the plain load-more list (BaseState) and decides,
// for every refresh and navigation, where a page comes from:
//
//   - the session cache, when returning to a list the user left for a
//     discussion (a silent restore, no network);
//   - the running cache, when the page was already fetched for the same
//     include, filter and sort parameters;
//   - the store otherwise.
//
// Every page change is mirrored to the page query parameter of the URL and
// scrolls the list back to its top.
package pagination
