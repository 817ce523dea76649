// Command clipplex is the command line interface: session listing, clip and
// snapshot creation, library management, and configuration utilities.
package main
