// Package view derives every display string of the paper carbon form from a
// tracker snapshot. Nothing here renders HTML or terminal output; both front
// ends consume the same Page.
package view
