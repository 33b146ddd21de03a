// Package programme loads the conference programme into a core.Table.
//
// A Source produces the normalized talk table; CSVSource reads the programme
// export. Store keeps the most recently loaded programme for concurrent
// readers and swaps it atomically on Reload.
package programme
