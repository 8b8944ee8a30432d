// Package viz provides terminal drawing for the particle sandbox.
//
//   - [Canvas]: half-block colour framebuffer implementing the engine's
//     drawing surface, two dots per terminal cell
//   - HUD helpers: gradient titles, slider bars, FPS health colours
//
// Colours are "#rrggbb" tokens parsed with go-colorful and rendered through
// lipgloss, which downsamples to whatever the terminal supports.
package viz
