// Package tui renders the paper carbon form in a terminal. Model is a Bubble
// Tea program driving a tracker; RenderPlain prints a page without styling for
// non-interactive output.
package tui
